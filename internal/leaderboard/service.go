package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mekong-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultLimit when the client does not ask for a specific size.
const DefaultLimit = 10

// MaxLimit caps a requested size.
const MaxLimit = 50

type Service struct {
	DB *gorm.DB
}

// Entry is one ranked row. FundingProgress is the raw percentage (may exceed
// 100 for overfunded projects); DisplayProgress is clamped for bar widths.
type Entry struct {
	ProjectID       uuid.UUID `json:"project_id"`
	Title           string    `json:"title"`
	CreatorUsername string    `json:"creator_username"`
	AvgRating       float64   `json:"avg_rating"`
	TotalRatings    int       `json:"total_ratings"`
	FundingProgress float64   `json:"funding_progress"`
	DisplayProgress float64   `json:"display_progress"`
	RatingScore     float64   `json:"rating_score"`
	Rank            int       `json:"rank"`
	RankLabel       string    `json:"rank_label"`
}

// Progress returns current/goal as a percentage. A non-positive goal yields 0.
func Progress(current, goal int64) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(current) / float64(goal) * 100
}

// ClampProgress caps the bar width at 100% without altering the stored value.
func ClampProgress(progress float64) float64 {
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return progress
}

// Score combines rating quality and funding momentum on a 0..100 scale:
// stars carry 60% (5 stars = 100 points before weighting), clamped funding
// progress 40%.
func Score(avgRating, progress float64) float64 {
	return 0.6*(avgRating*20) + 0.4*ClampProgress(progress)
}

// RankLabel renders medals for the podium and "#n" below it.
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", rank)
	}
}

type ratedProject struct {
	project   models.InvestmentProject
	username  string
	sum       int
	count     int
	createdAt time.Time
}

// TopProjects returns up to limit entries ranked by composite score. Only
// projects visible to investors (active, funded, completed) are ranked.
func (s *Service) TopProjects(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var projects []models.InvestmentProject
	err := s.DB.WithContext(ctx).
		Where("status IN ?", []string{models.ProjectActive, models.ProjectFunded, models.ProjectCompleted}).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return []Entry{}, nil
	}

	ids := make([]uuid.UUID, len(projects))
	ownerIDs := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ProjectID
		ownerIDs[i] = p.OwnerID
	}

	var ratings []models.ProjectRating
	if err := s.DB.WithContext(ctx).Where("project_id IN ?", ids).Find(&ratings).Error; err != nil {
		return nil, err
	}

	var owners []models.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return nil, err
	}
	usernames := make(map[uuid.UUID]string, len(owners))
	for _, o := range owners {
		usernames[o.UserID] = o.Username
	}

	byProject := make(map[uuid.UUID]*ratedProject, len(projects))
	for _, p := range projects {
		byProject[p.ProjectID] = &ratedProject{
			project:   p,
			username:  usernames[p.OwnerID],
			createdAt: p.CreatedAt,
		}
	}
	for _, r := range ratings {
		if rp, ok := byProject[r.ProjectID]; ok {
			rp.sum += r.Rating
			rp.count++
		}
	}

	entries := make([]Entry, 0, len(byProject))
	for _, rp := range byProject {
		avg := 0.0
		if rp.count > 0 {
			avg = float64(rp.sum) / float64(rp.count)
		}
		progress := Progress(rp.project.CurrentFunding, rp.project.FundingGoal)
		entries = append(entries, Entry{
			ProjectID:       rp.project.ProjectID,
			Title:           rp.project.Title,
			CreatorUsername: rp.username,
			AvgRating:       avg,
			TotalRatings:    rp.count,
			FundingProgress: progress,
			DisplayProgress: ClampProgress(progress),
			RatingScore:     Score(avg, progress),
		})
	}

	created := func(e Entry) time.Time { return byProject[e.ProjectID].createdAt }
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RatingScore != entries[j].RatingScore {
			return entries[i].RatingScore > entries[j].RatingScore
		}
		if entries[i].TotalRatings != entries[j].TotalRatings {
			return entries[i].TotalRatings > entries[j].TotalRatings
		}
		return created(entries[i]).Before(created(entries[j]))
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].RankLabel = RankLabel(i + 1)
	}
	return entries, nil
}
