// Package filter narrows movie listings with expr-lang expressions such as
//
//	VoteAverage >= 7.5 and Year >= 2000 and not contains(Title, "part")
//
// Expressions see the movie as top-level identifiers (Title, Year,
// VoteAverage, VoteCount, Released, HasPoster, ...) plus date and string
// helpers.
package filter

import "github.com/s0up4200/reelscout/catalog"

// Apply returns the movies matching f, in their original order. The result
// is never nil.
func Apply(f Filter, movies []catalog.Movie) []catalog.Movie {
	out := make([]catalog.Movie, 0, len(movies))
	for _, m := range movies {
		if f.Evaluate(m) {
			out = append(out, m)
		}
	}
	return out
}

// Compile compiles expression with a fresh compiler.
func Compile(expression string) (CompiledFilter, error) {
	return NewCompiler(WithCache(0)).Compile(expression)
}
