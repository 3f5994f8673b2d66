// Package query resolves declarative filter/sort/page specifications into
// deterministic, organization-scoped record pages. Every resolver takes the
// tenant id explicitly; there is no unscoped entry point.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/halcyonlabs/argus/internal/models"
)

// ErrInvalidQuery flags a disallowed sort field or malformed spec value.
// Optional filter fields degrade to no-ops instead.
var ErrInvalidQuery = errors.New("invalid query")

// All is the filter value meaning "no filter applied".
const All = "all"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Filter is the declarative record filter. Empty or "all" fields are no-ops.
type Filter struct {
	Severity string
	Status   string
	Type     string
	Source   string
	AssetRef string // numeric asset id or free-text asset name match
	DateFrom *time.Time
	DateTo   *time.Time
}

// Sort names the order column and direction. The field must be on the
// entity's allow-list; the direction defaults to descending.
type Sort struct {
	Field     string
	Direction string // "asc" or "desc"
}

// Page selects a result window. Number starts at 1; Size is capped.
type Page struct {
	Number int
	Size   int
}

// Spec bundles filter, sort and pagination for one resolution.
type Spec struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

// orderClause validates the sort field against the allow-list and returns a
// deterministic ORDER BY with a primary-key tie-break.
func orderClause(s Sort, allowed map[string]string, fallback, pk string) (string, error) {
	field := s.Field
	if field == "" {
		field = fallback
	}
	column, ok := allowed[field]
	if !ok {
		return "", fmt.Errorf("%w: sort field %q", ErrInvalidQuery, s.Field)
	}

	dir := "DESC"
	switch strings.ToLower(s.Direction) {
	case "asc":
		dir = "ASC"
	case "", "desc":
	default:
		return "", fmt.Errorf("%w: sort direction %q", ErrInvalidQuery, s.Direction)
	}

	tieDir := dir
	return fmt.Sprintf("%s %s, %s %s", column, dir, pk, tieDir), nil
}

func active(value string) bool {
	return value != "" && value != All
}

// Threats returns the tenant-scoped base query for threats.
func Threats(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Model(&models.Threat{}).Where("threats.organization_id = ?", orgID)
}

// Vulnerabilities returns the tenant-scoped base query for vulnerabilities.
// Scope is enforced through the asset join: vulnerabilities carry no
// organization column of their own, and the join is the isolation boundary.
func Vulnerabilities(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Model(&models.Vulnerability{}).
		Joins("JOIN assets ON assets.id = vulnerabilities.asset_id").
		Where("assets.organization_id = ?", orgID)
}

// Events returns the tenant-scoped base query for security events.
func Events(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Model(&models.SecurityEvent{}).Where("security_events.organization_id = ?", orgID)
}

var threatSortFields = map[string]string{
	"detected_at": "threats.detected_at",
	"resolved_at": "threats.resolved_at",
	"severity":    "threats.severity",
	"status":      "threats.status",
	"created_at":  "threats.created_at",
}

var vulnSortFields = map[string]string{
	"detected_at": "vulnerabilities.detected_at",
	"fixed_at":    "vulnerabilities.fixed_at",
	"severity":    "vulnerabilities.severity",
	"status":      "vulnerabilities.status",
	"cvss_score":  "vulnerabilities.cvss_score",
	"created_at":  "vulnerabilities.created_at",
}

// ResolveThreats applies spec to the organization's threats and returns one
// page plus the total match count. An out-of-range page yields an empty page
// with the correct total, never an error.
func ResolveThreats(db *gorm.DB, orgID uint, spec Spec) ([]models.Threat, int64, error) {
	q := Threats(db, orgID)

	f := spec.Filter
	if active(f.Severity) {
		q = q.Where("threats.severity = ?", f.Severity)
	}
	if active(f.Status) {
		q = q.Where("threats.status = ?", f.Status)
	}
	if active(f.Type) {
		q = q.Where("threats.threat_type = ?", f.Type)
	}
	if active(f.Source) {
		q = q.Where("threats.source = ?", f.Source)
	}
	if f.DateFrom != nil {
		q = q.Where("threats.detected_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("threats.detected_at <= ?", *f.DateTo)
	}

	order, err := orderClause(spec.Sort, threatSortFields, "detected_at", "threats.id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := spec.Page.normalize()
	var threats []models.Threat
	if err := q.Order(order).Offset(page.offset()).Limit(page.Size).Find(&threats).Error; err != nil {
		return nil, 0, err
	}
	return threats, total, nil
}

// ResolveVulnerabilities applies spec to the organization's vulnerabilities,
// joined through assets for tenant scope, and returns one page plus the
// total match count.
func ResolveVulnerabilities(db *gorm.DB, orgID uint, spec Spec) ([]models.Vulnerability, int64, error) {
	q := Vulnerabilities(db, orgID)

	f := spec.Filter
	if active(f.Severity) {
		q = q.Where("vulnerabilities.severity = ?", f.Severity)
	}
	if active(f.Status) {
		q = q.Where("vulnerabilities.status = ?", f.Status)
	}
	if active(f.AssetRef) {
		if id, err := strconv.ParseUint(f.AssetRef, 10, 64); err == nil {
			q = q.Where("vulnerabilities.asset_id = ?", uint(id))
		} else {
			q = q.Where("assets.name LIKE ?", "%"+f.AssetRef+"%")
		}
	}
	if f.DateFrom != nil {
		q = q.Where("vulnerabilities.detected_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("vulnerabilities.detected_at <= ?", *f.DateTo)
	}

	order, err := orderClause(spec.Sort, vulnSortFields, "detected_at", "vulnerabilities.id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := spec.Page.normalize()
	var vulns []models.Vulnerability
	if err := q.Order(order).Offset(page.offset()).Limit(page.Size).Find(&vulns).Error; err != nil {
		return nil, 0, err
	}
	return vulns, total, nil
}
