package app

import "time"

func (r *Registry) SetClock(now func() time.Time) { r.now = now }

func (r *Registry) SetSweepInterval(d time.Duration) { r.config.SweepInterval = d }
