package neso

import "context"

// DemandDataAPI fetches the published demand history file.
type DemandDataAPI interface {
	FetchDemandData(ctx context.Context) ([]byte, error)
}
