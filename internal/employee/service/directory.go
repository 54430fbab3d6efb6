package service

import (
	"context"
	"strings"

	"github.com/newwork/people-service/internal/employee/permission"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/logger"
)

// DirectoryEntry is one roster row, decorated with the viewer's
// relationship. PendingAbsenceCount is present only on direct reports.
type DirectoryEntry struct {
	UserID              string  `json:"userId"`
	EmployeeID          string  `json:"employeeId"`
	PreferredName       string  `json:"preferredName"`
	LegalFirstName      string  `json:"legalFirstName"`
	LegalLastName       string  `json:"legalLastName"`
	JobTitle            *string `json:"jobTitle,omitempty"`
	Department          *string `json:"department,omitempty"`
	WorkLocationType    *string `json:"workLocationType,omitempty"`
	ProfilePhotoURL     *string `json:"profilePhotoUrl,omitempty"`
	Relationship        string  `json:"relationship"`
	DirectReport        bool    `json:"directReport"`
	PendingAbsenceCount *int    `json:"pendingAbsenceCount,omitempty"`
}

// DirectoryFilter narrows the roster
type DirectoryFilter struct {
	Search            string
	Department        string
	DirectReportsOnly bool
}

// DirectoryService projects the coworker roster for a viewer
type DirectoryService struct {
	profiles ProfileStore
	absences AbsenceStore
	logger   *logger.Logger
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(profiles ProfileStore, absences AbsenceStore, log *logger.Logger) *DirectoryService {
	return &DirectoryService{
		profiles: profiles,
		absences: absences,
		logger:   log,
	}
}

// Directory returns all other active employees visible to the viewer,
// ordered by preferred name then legal first name. The manager edge
// comes from the roster join, so no per-row account lookups happen.
func (s *DirectoryService) Directory(ctx context.Context, viewerID string, filter DirectoryFilter) ([]*DirectoryEntry, error) {
	rows, err := s.profiles.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*DirectoryEntry, 0, len(rows))
	for _, row := range rows {
		if row.UserID == viewerID {
			continue
		}
		if !matchesFilter(row, filter) {
			continue
		}

		rel := permission.Coworker
		if row.UserManagerID != nil && *row.UserManagerID == viewerID {
			rel = permission.Manager
		}
		if filter.DirectReportsOnly && rel != permission.Manager {
			continue
		}

		entry := &DirectoryEntry{
			UserID:           row.UserID,
			EmployeeID:       row.UserEmployeeID,
			PreferredName:    row.DisplayName(),
			LegalFirstName:   row.LegalFirstName,
			LegalLastName:    row.LegalLastName,
			JobTitle:         row.JobTitle,
			Department:       row.Department,
			WorkLocationType: row.WorkLocationType,
			ProfilePhotoURL:  row.ProfilePhotoURL,
			Relationship:     rel.WireName(),
			DirectReport:     rel == permission.Manager,
		}

		if rel == permission.Manager {
			count, err := s.absences.CountPendingFor(ctx, viewerID, row.UserID)
			if err != nil {
				s.logger.Error().Err(err).Str("user_id", row.UserID).Msg("failed to count pending absences")
			} else {
				entry.PendingAbsenceCount = &count
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func matchesFilter(row *repository.ProfileWithUser, filter DirectoryFilter) bool {
	if filter.Department != "" {
		if row.Department == nil || !strings.EqualFold(*row.Department, filter.Department) {
			return false
		}
	}

	if filter.Search == "" {
		return true
	}

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	haystacks := []string{
		row.DisplayName(),
		row.LegalFirstName + " " + row.LegalLastName,
		row.UserEmail,
		row.UserEmployeeID,
	}
	if row.Department != nil {
		haystacks = append(haystacks, *row.Department)
	}

	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
