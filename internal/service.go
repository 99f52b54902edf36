package internal

// constants exported by this package
const (
	ServiceName = "melp-api"

	// endpoints
	RestaurantsEndpoint = "Restaurants"

	StatisticsEndpoint = "RestaurantStatistics"

	HealthEndpoint = "Health"
)
