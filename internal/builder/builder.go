// Package builder tags an upstream desktop image locally through the engine's
// build command and turns its output into progress lines.
package builder

import (
	"context"
	"fmt"
	"strings"

	brewerrors "brewboxes/internal/errors"
	"brewboxes/pkg/runtime"
)

// noisePatterns mark build output that carries no useful progress: cached
// layers, pull notices and the one-step marker of a FROM-only descriptor.
var noisePatterns = []string{
	"skipped: already exists",
	"done",
	"STEP 1/1",
	"Trying to pull",
}

// IsNoise reports whether a build output line should not be forwarded.
func IsNoise(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	for _, p := range noisePatterns {
		if strings.Contains(trimmed, p) {
			return true
		}
	}
	return false
}

// Build runs the engine build of imageRef in contextDir. Every line that is not
// noise is passed to onProgress unchanged. A nil onProgress discards output.
func Build(ctx context.Context, eng runtime.Engine, imageRef, contextDir string, onProgress func(string)) error {
	if onProgress == nil {
		onProgress = func(string) {}
	}

	err := eng.Build(ctx, runtime.BuildOptions{
		Tag:        imageRef,
		ContextDir: contextDir,
		OnLine: func(line string) {
			if IsNoise(line) {
				return
			}
			onProgress(line)
		},
	})
	if err != nil {
		return brewerrors.NewBuildError(
			"Image build failed",
			fmt.Sprintf("%s could not build %s", eng.Kind(), imageRef),
			"Check that the distro and gui name a published image and that the registry is reachable",
			err,
		)
	}
	return nil
}
