package entities

import "sort"

// UpdateStrategy plans updates for every requirement of a bundle.
type UpdateStrategy interface {
	GetUpdates(bundle *RequirementsBundle, pinUnpinned bool) []Update
}

// UpdateStrategies holds the strategy used for a first run over a
// repository and the one used once files reflect a previous run.
type UpdateStrategies struct {
	Initial    UpdateStrategy
	Sequential UpdateStrategy
}

// DefaultUpdateStrategies returns the built-in initial and sequential
// strategies.
func DefaultUpdateStrategies() UpdateStrategies {
	return UpdateStrategies{
		Initial:    InitialUpdateStrategy{},
		Sequential: SequentialUpdateStrategy{},
	}
}

// RequirementsBundle is the ordered set of requirement files handled in one
// update run.
type RequirementsBundle struct {
	files      []*RequirementFile
	strategies UpdateStrategies
}

// NewRequirementsBundle creates a bundle over files.
func NewRequirementsBundle(strategies UpdateStrategies, files ...*RequirementFile) *RequirementsBundle {
	return &RequirementsBundle{
		files:      files,
		strategies: strategies,
	}
}

// Append adds a file while the bundle is being assembled.
func (b *RequirementsBundle) Append(file *RequirementFile) {
	b.files = append(b.files, file)
}

// Files returns the files in bundle order.
func (b *RequirementsBundle) Files() []*RequirementFile {
	return b.files
}

// HasFileInPath reports whether a file with the given path is present.
func (b *RequirementsBundle) HasFileInPath(path string) bool {
	for _, file := range b.files {
		if file.Path == path {
			return true
		}
	}
	return false
}

// Requirements flattens all requirements in file order, then line order.
func (b *RequirementsBundle) Requirements() []*Requirement {
	var all []*Requirement
	for _, file := range b.files {
		all = append(all, file.Requirements()...)
	}
	return all
}

// PullRequests returns the distinct pull requests attached to requirements,
// oldest first.
func (b *RequirementsBundle) PullRequests() []*PullRequest {
	var attached []*PullRequest
	for _, req := range b.Requirements() {
		if req.PullRequest != nil {
			attached = append(attached, req.PullRequest)
		}
	}
	sort.SliceStable(attached, func(i, j int) bool {
		return attached[i].CreatedAt.Before(attached[j].CreatedAt)
	})

	seen := make(map[*PullRequest]bool, len(attached))
	result := make([]*PullRequest, 0, len(attached))
	for _, pr := range attached {
		if seen[pr] {
			continue
		}
		seen[pr] = true
		result = append(result, pr)
	}
	return result
}

// GetUpdates plans updates with the initial or the sequential strategy.
func (b *RequirementsBundle) GetUpdates(initial, pinUnpinned bool) []Update {
	if initial {
		return b.strategies.Initial.GetUpdates(b, pinUnpinned)
	}
	return b.strategies.Sequential.GetUpdates(b, pinUnpinned)
}
