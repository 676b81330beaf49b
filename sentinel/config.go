package main

import (
	"github.com/gr80mcbr/lwfm/sentinel/internal/apimachinery"
	"github.com/gr80mcbr/lwfm/sentinel/internal/apimachinery/auth"
	"github.com/gr80mcbr/lwfm/sentinel/internal/dispatch"
	"github.com/gr80mcbr/lwfm/sentinel/internal/mongodb"
	"github.com/gr80mcbr/lwfm/sentinel/internal/redis"
	"github.com/gr80mcbr/lwfm/sentinel/internal/sites"
	"github.com/gr80mcbr/lwfm/sentinel/internal/statuses"
	statusesMongodb "github.com/gr80mcbr/lwfm/sentinel/internal/statuses/mongodb"
	statusesRedis "github.com/gr80mcbr/lwfm/sentinel/internal/statuses/redis"
	"github.com/gr80mcbr/lwfm/sentinel/internal/triggers"
	triggersMongodb "github.com/gr80mcbr/lwfm/sentinel/internal/triggers/mongodb"
)

func getServerFromEnvironment() (apimachinery.Server, error) {

	// API server config
	apiConfig, err := apimachinery.GetConfigFromEnvironment()
	if err != nil {
		return nil, err
	}

	// Common
	database, err := mongodb.Database()
	if err != nil {
		return nil, err
	}

	// Triggers
	triggersStore, err := triggersMongodb.NewStore(database)
	if err != nil {
		return nil, err
	}
	triggersService := triggers.NewService(triggersStore)

	// Sites-- where fired jobs get submitted
	siteRegistry, err := sites.NewRegistryFromEnvironment()
	if err != nil {
		return nil, err
	}
	submitter := sites.NewHTTPSubmitter(siteRegistry)
	dispatcher := dispatch.NewDispatcher(
		triggersStore,
		submitter,
		apiConfig.DispatchTimeout(),
	)

	// Statuses-- depends on triggers by way of the dispatcher
	statusesStore, err := statusesMongodb.NewStore(database)
	if err != nil {
		return nil, err
	}
	var statusesCache statuses.Cache
	if redis.Enabled() {
		redisClient, err := redis.Client()
		if err != nil {
			return nil, err
		}
		statusesCache = statusesRedis.NewCache(redisClient)
	}
	statusesService := statuses.NewService(
		statusesStore,
		statusesCache,
		dispatcher,
	)

	baseEndpoints := &apimachinery.BaseEndpoints{
		TokenAuthFilter: auth.NewTokenAuthFilter(apiConfig.HashedAPIToken()),
	}

	return apimachinery.NewServer(
		apiConfig,
		baseEndpoints,
		[]apimachinery.Endpoints{
			statuses.NewEndpoints(baseEndpoints, statusesService),
			triggers.NewEndpoints(baseEndpoints, triggersService),
		},
	), nil
}
