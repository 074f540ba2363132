package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/applytrack/applytrack/internal/db/models"
)

// DateLayout is the format of DailyBucket.Date
const DateLayout = "2006-01-02"

// ErrInvalidWindow is returned for a day window outside [1, MaxTimelineDays]
var ErrInvalidWindow = errors.New("invalid timeline window")

// DailyBucket holds the applications sent on one calendar day
type DailyBucket struct {
	Date      string   `json:"date"`
	Count     int      `json:"count"`
	Companies []string `json:"companies"`
}

// BuildDailyTimeline returns exactly days buckets ending with the day of now,
// oldest first. Days start at midnight in loc; a nil loc means UTC. Company
// names are listed once per application in applied order.
func BuildDailyTimeline(apps []models.Application, days int, now time.Time, loc *time.Location) ([]DailyBucket, error) {
	if days <= 0 || days > MaxTimelineDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidWindow, MaxTimelineDays, days)
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(days - 1))

	buckets := make([]DailyBucket, days)
	index := make(map[string]int, days)
	for i := range buckets {
		date := first.AddDate(0, 0, i).Format(DateLayout)
		buckets[i] = DailyBucket{Date: date, Companies: []string{}}
		index[date] = i
	}

	applied := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if app.AppliedAt != nil {
			applied = append(applied, app)
		}
	}
	sort.SliceStable(applied, func(i, j int) bool {
		if !applied[i].AppliedAt.Equal(*applied[j].AppliedAt) {
			return applied[i].AppliedAt.Before(*applied[j].AppliedAt)
		}
		return applied[i].ID < applied[j].ID
	})

	for _, app := range applied {
		idx, ok := index[app.AppliedAt.In(loc).Format(DateLayout)]
		if !ok {
			continue
		}
		buckets[idx].Count++
		if name := app.CompanyName(); name != "" {
			buckets[idx].Companies = append(buckets[idx].Companies, name)
		}
	}
	return buckets, nil
}
