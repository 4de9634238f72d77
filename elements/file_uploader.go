package elements

import (
	"context"

	wstate "github.com/goliatone/go-widgetstate"
	"github.com/goliatone/go-widgetstate/pkg/uploads"
)

// FileUploaderConfig configures a file uploader. Manager owns the
// uploaded payloads; the widget's wire value only carries file ids.
type FileUploaderConfig struct {
	Label         string
	Types         []string
	MultipleFiles bool
	Help          string
	Key           string
	Manager       uploads.Manager
	OnChange      wstate.WidgetCallback
	Args          []any
}

type fileUploaderContent struct {
	Label         string
	Types         []string
	MultipleFiles bool
	Help          string
}

// FileUploader registers a file uploader and returns the files the
// client currently holds in it.
//
// The wire value is an int array of the form [newestFileID,
// activeFileID...]. The ids after the first are looked up in the
// manager; newestFileID additionally drives garbage collection of
// uploads the client abandoned. Without a manager or a live execution
// the element resolves to no files.
func FileUploader(ctx context.Context, cfg FileUploaderConfig) ([]uploads.File, error) {
	reg, err := wstate.Register(ctx, wstate.WidgetSpec{
		Type: "file_uploader",
		Config: fileUploaderContent{
			Label:         cfg.Label,
			Types:         normalizeTypes(cfg.Types),
			MultipleFiles: cfg.MultipleFiles,
			Help:          cfg.Help,
		},
		UserKey: cfg.Key,
		Kind:    wstate.KindIntArray,
		Deserialize: func(raw any) (any, error) {
			if raw == nil {
				return []int64(nil), nil
			}
			return asInt64Slice(raw)
		},
		Serialize: func(value any) (any, error) {
			ids, ok := value.([]int64)
			if !ok && value != nil {
				return nil, typeError("file_uploader", "[]int64", value)
			}
			return ids, nil
		},
		OnChange: cfg.OnChange,
		Args:     cfg.Args,
	})
	if err != nil {
		return nil, err
	}

	exec, ok := wstate.FromContext(ctx)
	if !ok || cfg.Manager == nil {
		return nil, nil
	}

	ids, _ := reg.Value.([]int64)
	if ids == nil {
		return nil, nil
	}
	if len(ids) == 0 {
		// The client always sends at least the newest file id.
		exec.Logger().Log(wstate.LogEvent{
			Op:       "file_uploader",
			WidgetID: reg.ID,
			Message:  "got an empty file uploader value, expected at least the newest file id",
		})
		return nil, nil
	}

	sessionID := exec.Session().ID()
	newestFileID := ids[0]
	activeFileIDs := ids[1:]

	files, err := cfg.Manager.GetFiles(sessionID, reg.ID, activeFileIDs)
	if err != nil {
		return nil, err
	}
	if err := cfg.Manager.RemoveOrphanedFiles(sessionID, reg.ID, newestFileID, activeFileIDs); err != nil {
		exec.Logger().Log(wstate.LogEvent{
			Op:       "file_uploader",
			WidgetID: reg.ID,
			Message:  "orphaned file cleanup failed",
			Err:      err,
		})
	}
	return files, nil
}

func normalizeTypes(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	out := make([]string, len(types))
	for i, t := range types {
		if t != "" && t[0] != '.' {
			t = "." + t
		}
		out[i] = t
	}
	return out
}
