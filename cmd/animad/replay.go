package main

import (
	"context"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
)

// ReplayOn replays the page at each time given by the cron
// expression until the context is done.
func (s *Server) ReplayOn(ctx context.Context, cronExpr string) error {
	c, err := cronexpr.Parse(cronExpr)
	if err != nil {
		return err
	}

	go func() {
		for {
			next := c.Next(time.Now())
			if next.IsZero() {
				log.Printf("replay schedule '%s' exhausted", cronExpr)
				return
			}
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			log.Printf("scheduled replay")
			if err := s.Replay(ctx); err != nil {
				log.Printf("scheduled replay error %v", err)
			}
		}
	}()

	return nil
}
