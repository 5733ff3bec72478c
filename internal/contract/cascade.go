package contract

import "github.com/alexanderramin/curricula/internal/app"

type CascadeRequest = app.CascadeRequest

func NewCascadeRequest(topicID string) CascadeRequest {
	return app.NewCascadeRequest(topicID)
}

type TotalsDelta = app.TotalsDelta

type CascadeResponse = app.CascadeResponse
