package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/sdejongh/filekeeper/internal/platform"
	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/sdejongh/filekeeper/pkg/storage"
)

// validateSource checks that the source flag names an existing directory
func validateSource(ctx context.Context, source string) error {
	if err := platform.ValidatePath(source); err != nil {
		return &models.ValidationError{Field: "source", Message: err.Error()}
	}

	info, err := storage.NewLocal().Stat(ctx, source)
	if errors.Is(err, os.ErrNotExist) {
		return &models.ValidationError{Field: "source", Message: "path does not exist: " + source}
	} else if err != nil {
		return models.NewIOError("stat", source, err)
	} else if !info.IsDir {
		return &models.ValidationError{Field: "source", Message: "path is not a directory: " + source}
	}
	return nil
}

// validateExtension rejects an empty or blank extension
func validateExtension(ext string) error {
	if strings.TrimSpace(ext) == "" {
		return &models.ValidationError{Field: "ext", Message: "extension must not be empty"}
	}
	return nil
}

func validateMoveFlags(ctx context.Context) error {
	if err := validateSource(ctx, moveFlags.Source); err != nil {
		return err
	}
	if err := platform.ValidatePath(moveFlags.Dest); err != nil {
		return &models.ValidationError{Field: "dest", Message: err.Error()}
	}

	same, err := platform.SamePath(moveFlags.Source, moveFlags.Dest)
	if err != nil {
		return &models.ValidationError{Field: "dest", Message: err.Error()}
	}
	if same {
		return &models.ValidationError{
			Field:   "dest",
			Message: "source and destination cannot be the same: " + platform.NormalizePath(moveFlags.Source),
		}
	}

	// An existing destination must be a directory; a missing one is created
	if info, err := os.Stat(moveFlags.Dest); err == nil && !info.IsDir() {
		return &models.ValidationError{Field: "dest", Message: "path exists but is not a directory: " + moveFlags.Dest}
	}

	return validateExtension(moveFlags.Extension)
}

func validateDeleteFlags(ctx context.Context) error {
	if err := validateSource(ctx, deleteFlags.Source); err != nil {
		return err
	}
	return validateExtension(deleteFlags.Extension)
}

func validateSearchFlags(ctx context.Context) error {
	if strings.TrimSpace(searchFlags.Pattern) == "" {
		return &models.ValidationError{Field: "pattern", Message: "Please enter a search term."}
	}
	return validateSource(ctx, searchFlags.Source)
}
