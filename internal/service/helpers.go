package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
)

// fetchAllMilestones drains every page for a kid profile, looping on the
// continuation token until the store stops returning one. A failed page
// aborts the whole fetch; callers never see a partial result.
func fetchAllMilestones(ctx context.Context, store repository.MilestoneStore, kidProfileID string) ([]domain.Milestone, error) {
	var all []domain.Milestone
	token := ""
	for {
		items, next, err := store.ListMilestones(ctx, kidProfileID, token)
		if err != nil {
			return nil, fmt.Errorf("fetching milestones: %w", err)
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// fetchAllTasks drains every task page for a kid profile, preserving
// fetch order across pages.
func fetchAllTasks(ctx context.Context, store repository.MilestoneStore, kidProfileID string) ([]domain.Task, error) {
	var all []domain.Task
	token := ""
	for {
		items, next, err := store.ListTasks(ctx, kidProfileID, token)
		if err != nil {
			return nil, fmt.Errorf("fetching tasks: %w", err)
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		token = next
	}
}

// buildTree groups tasks under their milestones and annotates each node
// with its computed progress. Milestones come out newest-created-first;
// tasks keep their fetch order (they carry no sort key). Tasks whose
// MilestoneID matches no milestone are dropped; the count of orphans is
// returned for logging.
func buildTree(milestones []domain.Milestone, tasks []domain.Task) (nodes []domain.MilestoneNode, orphans int) {
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].CreatedAt.After(milestones[j].CreatedAt)
	})

	byMilestone := make(map[string][]domain.Task, len(milestones))
	known := make(map[string]bool, len(milestones))
	for _, m := range milestones {
		known[m.ID] = true
	}
	for _, t := range tasks {
		if !known[t.MilestoneID] {
			orphans++
			continue
		}
		byMilestone[t.MilestoneID] = append(byMilestone[t.MilestoneID], t)
	}

	nodes = make([]domain.MilestoneNode, 0, len(milestones))
	for _, m := range milestones {
		children := byMilestone[m.ID]
		nodes = append(nodes, domain.MilestoneNode{
			Milestone: m,
			Tasks:     children,
			Progress:  domain.Progress(children),
		})
	}
	return nodes, orphans
}
