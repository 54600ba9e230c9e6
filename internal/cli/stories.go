package cli

import (
	"fmt"

	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/filestore"
	"github.com/Harshitk-cp/tombench/internal/render"
)

// catalogRooms returns the location names legacy sentences are matched against.
func (a *App) catalogRooms(worldPath string) ([]string, error) {
	if worldPath == "" {
		worldPath = config.WorldPath()
	}
	world, err := filestore.LoadWorld(worldPath, a.logger)
	if err != nil {
		return nil, err
	}
	return world.Locations, nil
}

// loadStories reads a stories file. Legacy files only carry text, so their
// layouts are recovered by parsing the initial-state sentences.
func (a *App) loadStories(path string, legacy bool, worldPath string) ([]domain.Story, error) {
	if !legacy {
		var stories []domain.Story
		if err := filestore.ReadJSON(path, &stories); err != nil {
			return nil, err
		}
		return stories, nil
	}

	var raw []domain.LegacyStory
	if err := filestore.ReadJSON(path, &raw); err != nil {
		return nil, err
	}
	rooms, err := a.catalogRooms(worldPath)
	if err != nil {
		return nil, err
	}
	stories := make([]domain.Story, len(raw))
	for i, ls := range raw {
		layout, err := render.ParseInitialState(ls.InitialState, rooms)
		if err != nil {
			return nil, fmt.Errorf("story %d: %w", ls.InstanceIndex, err)
		}
		stories[i] = domain.Story{
			InstanceIndex: ls.InstanceIndex,
			Setting:       ls.Setting,
			Layout:        layout,
			InitialState:  ls.InitialState,
			FullStory:     ls.FullStory,
		}
	}
	return stories, nil
}
