package recipe

import (
	"forkd/domain"
	"forkd/entities"
)

// mergeTimeline interleaves two histories that are each already ordered
// newest first into one descending sequence. It is a single O(n) pass; the
// inputs are never re-sorted. When an edit and an experiment share an exact
// commit date the edit is emitted first, which together with the per-history
// (commit_date, id) ordering makes the result deterministic across calls.
func mergeTimeline(edits []*entities.Edit, experiments []*entities.Experiment) []domain.TimelineItem {
	items := make([]domain.TimelineItem, 0, len(edits)+len(experiments))

	i, j := 0, 0
	for i < len(edits) && j < len(experiments) {
		if !edits[i].CommitDate.Before(experiments[j].CommitDate) {
			items = append(items, editTimelineItem(edits[i]))
			i++
		} else {
			items = append(items, experimentTimelineItem(experiments[j]))
			j++
		}
	}
	for ; i < len(edits); i++ {
		items = append(items, editTimelineItem(edits[i]))
	}
	for ; j < len(experiments); j++ {
		items = append(items, experimentTimelineItem(experiments[j]))
	}

	return items
}

func editTimelineItem(edit *entities.Edit) domain.TimelineItem {
	item := domain.TimelineItem{
		Type:         domain.TimelineItemEdit,
		ID:           edit.ID.String(),
		CommitDate:   edit.CommitDate,
		Title:        edit.Title,
		Description:  edit.Description,
		Ingredients:  edit.Ingredients,
		Instructions: edit.Instructions,
		ImageURL:     edit.ImageURL,
	}
	if edit.CommitBy != nil {
		item.CommitBy = edit.CommitBy.String()
	}
	return item
}

func experimentTimelineItem(experiment *entities.Experiment) domain.TimelineItem {
	item := domain.TimelineItem{
		Type:       domain.TimelineItemExperiment,
		ID:         experiment.ID.String(),
		CommitDate: experiment.CommitDate,
		CommitMsg:  experiment.CommitMsg,
		Notes:      experiment.Notes,
		CreateDate: experiment.CreateDate,
	}
	if experiment.CommitBy != nil {
		item.CommitBy = experiment.CommitBy.String()
	}
	return item
}
