package cmd

import (
	"time"

	"kgchat-launcher/internal/cli/output"
	env "kgchat-launcher/pkg"
	"kgchat-launcher/pkg/launcher"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

// StopCmd terminates a running application session.
type StopCmd struct {
	All     bool          `help:"Stop every running session, not just the newest"`
	Timeout time.Duration `help:"How long to wait before killing the process" default:"10s"`
}

func (c *StopCmd) Run(ctx *kong.Context) error {
	sessions, err := launcher.PruneSessions(env.SessionsDir)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		output.Info(output.Translate("stop.none"))
		return nil
	}

	if !c.All {
		sessions = sessions[:1]
	}
	for _, s := range sessions {
		log.Infof("stopping session %s (pid %d)", s.ID, s.PID)
		if err := s.Stop(c.Timeout); err != nil {
			return err
		}
		s.Remove(env.SessionsDir)
		output.Success(output.Translate("stop.stopped"), s.PID)
	}
	return nil
}
