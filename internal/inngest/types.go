package inngest

import (
	"github.com/inngest/inngestgo"
)

type client struct {
	inngestClient inngestgo.Client
	sweeper       Sweeper
}

// SweepSchedule backs up the in-process ticker when instances are scaled to zero.
const SweepSchedule = "*/5 * * * *"

// SweepResult is returned by the sweep function and shown in the Inngest dashboard.
type SweepResult struct {
	Expired int `json:"expired"`
}
