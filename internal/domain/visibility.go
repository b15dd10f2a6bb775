package domain

import (
	"sort"

	"github.com/google/uuid"
)

// ProjectScoped is implemented by every document type carrying an
// optional project reference.
type ProjectScoped interface {
	ProjectRef() *uuid.UUID
}

// Visible reports whether a project may be shown in the portal. A
// project absent from the map defaults to visible; only an explicit
// false hides it.
func (v VisibilityMap) Visible(projectID uuid.UUID) bool {
	if v == nil {
		return true
	}
	visible, ok := v[projectID]
	if !ok {
		return true
	}
	return visible
}

// FilterVisible returns the documents that survive the project filter.
// A nil selected ID means "all projects": every document whose project
// is visible passes. With a specific project selected, documents
// scoped to that project pass, and documents with no project reference
// pass under any selection. That last rule is deliberate: unscoped
// documents are global, not orphans to hide.
func FilterVisible[T any, PT interface {
	*T
	ProjectScoped
}](docs []T, selected *uuid.UUID, vis VisibilityMap) []T {
	out := make([]T, 0, len(docs))
	for i := range docs {
		var pt PT = &docs[i]
		ref := pt.ProjectRef()
		if ref == nil {
			out = append(out, docs[i])
			continue
		}
		if selected != nil {
			if *ref == *selected {
				out = append(out, docs[i])
			}
			continue
		}
		if vis.Visible(*ref) {
			out = append(out, docs[i])
		}
	}
	return out
}

// VisibleProjects returns the projects not hidden by the map, newest
// first.
func VisibleProjects(projects []Project, vis VisibilityMap) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if vis.Visible(p.ID) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ResolveDefaultProject picks the project a portal opens on. A
// configured default wins when it exists and is visible. Otherwise the
// newest visible project is chosen. When the visibility map hides
// every project, the newest project overall is returned rather than
// nothing, so a fully hidden portal still renders for the agency owner
// editing it. An empty project list resolves to nil.
func ResolveDefaultProject(projects []Project, settings *PortalSettings) *Project {
	if len(projects) == 0 {
		return nil
	}
	var vis VisibilityMap
	if settings != nil {
		vis = settings.ProjectVisibility
		if settings.DefaultProjectID != nil {
			for i := range projects {
				if projects[i].ID == *settings.DefaultProjectID && vis.Visible(projects[i].ID) {
					return &projects[i]
				}
			}
		}
	}
	visible := VisibleProjects(projects, vis)
	if len(visible) > 0 {
		return &visible[0]
	}
	all := make([]Project, len(projects))
	copy(all, projects)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return &all[0]
}
