package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-monthly/internal/domain/monthly"
)

const (
	SourceLive   = "live"
	SourceUpload = "upload"
)

// Snapshot is an archived monthly result published by a league admin.
type Snapshot struct {
	ID        string
	LeagueID  string
	Source    string
	Note      string
	Result    monthly.Result
	CreatedAt time.Time
}

func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("snapshot id is required")
	}
	if strings.TrimSpace(s.LeagueID) == "" {
		return fmt.Errorf("snapshot league id is required")
	}
	switch s.Source {
	case SourceLive, SourceUpload:
	default:
		return fmt.Errorf("unknown snapshot source %q", s.Source)
	}

	return nil
}
