package neso

import "context"

// DemandDataClientMock serves a fixed payload.
type DemandDataClientMock struct {
	Data []byte
	Err  error
}

func NewDemandDataClientMock(data []byte) *DemandDataClientMock {
	return &DemandDataClientMock{Data: data}
}

func (c *DemandDataClientMock) FetchDemandData(ctx context.Context) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return append([]byte(nil), c.Data...), nil
}
