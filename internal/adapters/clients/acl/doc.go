// Package acl is the anti-corruption layer between the MyAnimeList API and the
// domain. MAL DTOs stay unexported here; callers only see domain.Anime and
// domain errors.
//
// Error translation:
//   - 404 Not Found → [domain.ErrNotFound]
//   - 400/422 → [domain.ErrValidation]
//   - 401/403 → [domain.ErrForbidden]
//   - 429 → [domain.ErrRateLimited]
//   - 5xx, transport failures, open circuit → [domain.ErrUnavailable]
package acl
