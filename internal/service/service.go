package service

import (
	"github.com/naineek/trafficdash/internal/domain"
)

// DataRepository is re-exported from domain for convenience
type DataRepository = domain.DataRepository
