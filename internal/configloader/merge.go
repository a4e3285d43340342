package configloader

import (
	"slices"

	"github.com/normino/normino/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil,
//     except Exclude, which accumulates across layers
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	// Start with a shallow copy of base
	result := *base

	if override.Norminette != "" {
		result.Norminette = override.Norminette
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.BatchSize != 0 {
		result.BatchSize = override.BatchSize
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Server != "" {
		result.Server = override.Server
	}
	if override.UpdateModule != "" {
		result.UpdateModule = override.UpdateModule
	}

	// Booleans can only be switched on by a higher layer; false is the
	// zero value and indistinguishable from unset.
	if override.FollowSymlinks {
		result.FollowSymlinks = true
	}
	if override.ErrorOnly {
		result.ErrorOnly = true
	}
	if override.SummaryOnly {
		result.SummaryOnly = true
	}
	if override.Detailed {
		result.Detailed = true
	}
	if override.ListFiles {
		result.ListFiles = true
	}

	if override.NorminetteArgs != nil {
		result.NorminetteArgs = slices.Clone(override.NorminetteArgs)
	}
	if override.Exclude != nil {
		result.Exclude = appendUnique(slices.Clone(base.Exclude), override.Exclude)
	}

	return &result
}

func appendUnique(dst, src []string) []string {
	for _, item := range src {
		if !slices.Contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
