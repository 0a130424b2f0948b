// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package imageres

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxProbes bounds how many candidates Verify walks for one entry.
const maxProbes = 5

// Prober checks whether an image URL exists.
type Prober interface {
	Head(ctx context.Context, url string) (int, error)
}

// Verify resolves id and probes each candidate, marking 404 and 410 answers
// missing and falling through to the next source. Transport errors leave the
// candidate in place. It returns "" when only the placeholder remains.
func (r *Resolver) Verify(ctx context.Context, prober Prober, id, avatarHint string) (string, error) {
	for range maxProbes {
		candidate, err := r.ResolveAsync(ctx, id, avatarHint)
		if err != nil {
			return "", err
		}

		if candidate == "" || strings.HasPrefix(candidate, "data:") {
			return candidate, nil
		}

		status, err := prober.Head(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			return candidate, nil
		}

		if status != http.StatusNotFound && status != http.StatusGone {
			return candidate, nil
		}

		r.logger.Debug("image missing, falling back",
			zap.String("id", id),
			zap.String("url", candidate),
			zap.Int("status", status))
		r.MarkMissing(candidate)
	}

	return r.Resolve(id, avatarHint), nil
}
