package entities

import "fmt"

const (
	initialUpdateKey    = "initial"
	initialUpdateTitle  = "Initial Update"
	initialUpdateBranch = "initial"
)

// Update groups the requirement changes that travel together in one pull
// request.
type Update struct {
	Key     string
	Title   string
	Branch  string
	Changes []RequirementUpdate
}

// RequirementUpdate is the change planned for a single requirement.
type RequirementUpdate struct {
	Requirement   *Requirement
	File          *RequirementFile
	Target        string
	CommitMessage string
}

// shouldUpdate decides whether a requirement takes part in an update.
// Unpinned requirements are only touched when pinning was asked for, and
// direct URL references never are.
func shouldUpdate(req *Requirement, pinUnpinned bool) bool {
	if req.URL != "" {
		return false
	}
	if req.LatestVersionWithinSpecs() == "" || !req.NeedsUpdate() {
		return false
	}
	return req.IsPinned() || pinUnpinned
}

// CommitMessage describes the change of a single requirement.
func CommitMessage(req *Requirement) string {
	if req.IsPinned() {
		return fmt.Sprintf("Update %s from %s to %s", req.Key, req.Version(), req.LatestVersionWithinSpecs())
	}
	return fmt.Sprintf("Pin %s to latest version %s", req.Key, req.LatestVersionWithinSpecs())
}

func newRequirementUpdate(req *Requirement, file *RequirementFile) RequirementUpdate {
	return RequirementUpdate{
		Requirement:   req,
		File:          file,
		Target:        req.LatestVersionWithinSpecs(),
		CommitMessage: CommitMessage(req),
	}
}

// InitialUpdateStrategy puts every eligible requirement into one update.
type InitialUpdateStrategy struct{}

func (InitialUpdateStrategy) GetUpdates(bundle *RequirementsBundle, pinUnpinned bool) []Update {
	update := Update{
		Key:    initialUpdateKey,
		Title:  initialUpdateTitle,
		Branch: initialUpdateBranch,
	}
	for _, file := range bundle.Files() {
		for _, req := range file.Requirements() {
			if shouldUpdate(req, pinUnpinned) {
				update.Changes = append(update.Changes, newRequirementUpdate(req, file))
			}
		}
	}

	if len(update.Changes) == 0 {
		return []Update{}
	}
	return []Update{update}
}

// SequentialUpdateStrategy creates one update per package and target
// version, so the same package declared in several files moves together.
type SequentialUpdateStrategy struct{}

func (SequentialUpdateStrategy) GetUpdates(bundle *RequirementsBundle, pinUnpinned bool) []Update {
	updates := []Update{}
	index := make(map[string]int)

	for _, file := range bundle.Files() {
		for _, req := range file.Requirements() {
			if !shouldUpdate(req, pinUnpinned) {
				continue
			}

			change := newRequirementUpdate(req, file)
			key := req.Key + "-" + change.Target
			if pos, ok := index[key]; ok {
				updates[pos].Changes = append(updates[pos].Changes, change)
				continue
			}

			index[key] = len(updates)
			updates = append(updates, sequentialUpdate(req, change))
		}
	}
	return updates
}

func sequentialUpdate(req *Requirement, change RequirementUpdate) Update {
	update := Update{
		Key:     req.Key + "-" + change.Target,
		Changes: []RequirementUpdate{change},
	}
	if req.IsPinned() {
		update.Title = fmt.Sprintf("Update %s to %s", req.Name, change.Target)
		update.Branch = fmt.Sprintf("update-%s-%s", req.Key, change.Target)
	} else {
		update.Title = fmt.Sprintf("Pin %s to latest version %s", req.Name, change.Target)
		update.Branch = fmt.Sprintf("pin-%s-%s", req.Key, change.Target)
	}
	return update
}
