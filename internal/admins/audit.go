package admins

import (
	"context"
	"strings"

	"github.com/mtsdigital/storefront/pkg/db/models"
	"github.com/mtsdigital/storefront/pkg/enums"
	pkgerrors "github.com/mtsdigital/storefront/pkg/errors"
	"github.com/mtsdigital/storefront/pkg/logger"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

// Entry is one audit record.
type Entry struct {
	AdminID   string
	Action    enums.AdminAction
	Target    string
	Details   string
	IPAddress string
}

// Auditor writes the admin audit trail. Write failures are logged, never
// returned, so an audit outage does not fail the admin's request.
type Auditor struct {
	repo Repository
	logg *logger.Logger
}

func NewAuditor(repo Repository, logg *logger.Logger) *Auditor {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Auditor{repo: repo, logg: logg}
}

func (a *Auditor) Record(ctx context.Context, e Entry) {
	if a == nil || a.repo == nil {
		return
	}
	row := &models.AdminLog{
		AdminID:   optional(e.AdminID),
		Action:    e.Action,
		Target:    optional(e.Target),
		Details:   optional(e.Details),
		IPAddress: optional(e.IPAddress),
	}
	if err := a.repo.InsertLog(ctx, row); err != nil {
		ctx = a.logg.WithFields(ctx, map[string]any{"action": string(e.Action), "target": e.Target})
		a.logg.Error(ctx, "admins.audit_write_failed", err)
	}
}

func (a *Auditor) Recent(ctx context.Context, limit int) ([]LogDTO, error) {
	switch {
	case limit <= 0:
		limit = defaultLogLimit
	case limit > maxLogLimit:
		limit = maxLogLimit
	}
	rows, err := a.repo.RecentLogs(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admin logs")
	}
	out := make([]LogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewLogDTO(&rows[i]))
	}
	return out, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
