package player

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumelearn/player-backend/internal/lms"
	"github.com/lumelearn/player-backend/internal/model"
)

// LoadCourse fetches a course, its ordered modules and each module's
// ordered contents, and merges them into a single tree.
//
// Failure isolation follows the page-load contract: the course and module
// list fetches are fatal, a per-module content fetch failure degrades that
// module's content list to empty, and announcements/sessions degrade to
// empty as well. lms.ErrForbidden and lms.ErrNotFound propagate unwrapped
// so the caller can route to the access-denied presentation.
func LoadCourse(ctx context.Context, client lms.Client, courseID uuid.UUID, log zerolog.Logger) (*model.Course, error) {
	course, err := client.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	return assembleCourse(ctx, client, course, log)
}

// LoadCourseBySlug is LoadCourse addressed by slug.
func LoadCourseBySlug(ctx context.Context, client lms.Client, slug string, log zerolog.Logger) (*model.Course, error) {
	course, err := client.GetCourseBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load course by slug: %w", err)
	}
	return assembleCourse(ctx, client, course, log)
}

func assembleCourse(ctx context.Context, client lms.Client, course *model.Course, log zerolog.Logger) (*model.Course, error) {
	modules, err := client.GetCourseModules(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}

	for i := range modules {
		modules[i].CourseID = course.ID
		contents, err := client.GetModuleContents(ctx, course.ID, modules[i].ID)
		if err != nil {
			// Isolated failure: this module renders empty, the rest of
			// the course still loads.
			log.Warn().Err(err).
				Str("module_id", modules[i].ID.String()).
				Msg("module content fetch failed, degrading to empty")
			contents = nil
		}
		for j := range contents {
			if contents[j].ModuleID == uuid.Nil {
				contents[j].ModuleID = modules[i].ID
			}
		}
		sortContents(contents)
		modules[i].Contents = contents
		for j := range modules[i].Assignments {
			if modules[i].Assignments[j].ModuleID == uuid.Nil {
				modules[i].Assignments[j].ModuleID = modules[i].ID
			}
		}
	}
	sortModules(modules)
	course.Modules = modules

	if ann, err := client.GetCourseAnnouncements(ctx, course.ID); err != nil {
		log.Warn().Err(err).Msg("announcements fetch failed, degrading to empty")
	} else {
		course.Announcements = ann
	}

	if course.Format == model.CourseFormatHybrid {
		sessions, err := client.GetCourseSessions(ctx, course.ID)
		if err != nil {
			log.Warn().Err(err).Msg("sessions fetch failed, degrading to empty")
		} else {
			published := sessions[:0]
			for _, s := range sessions {
				if s.Published {
					published = append(published, s)
				}
			}
			course.Sessions = published
		}
	}

	return course, nil
}

// sortModules orders modules by their Order field. The sort is stable so
// order ties fall back to original list position, which is the documented
// tie-break.
func sortModules(modules []model.Module) {
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Order < modules[j].Order
	})
}

func sortContents(contents []model.Content) {
	sort.SliceStable(contents, func(i, j int) bool {
		return contents[i].Order < contents[j].Order
	})
}
