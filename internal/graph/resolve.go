package graph

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/minipack/internal/foundation/errors"
)

// isRelative reports whether spec is a ./ or ../ specifier.
func isRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// resolveSpecifier maps spec, as written in importer, to an existing file.
// It tries the exact path, then each extension appended, then an index file
// inside a directory of that name.
func (b *Builder) resolveSpecifier(importer, spec string) (string, error) {
	if !isRelative(spec) && !filepath.IsAbs(spec) {
		return "", errors.ResolutionError("bare module specifiers are not supported").
			WithContext("specifier", spec).
			WithContext("importer", importer).
			Build()
	}

	base := filepath.FromSlash(spec)
	if !filepath.IsAbs(base) {
		base = filepath.Join(filepath.Dir(importer), base)
	}
	base = filepath.Clean(base)

	candidates := make([]string, 0, 1+2*len(b.extensions))
	candidates = append(candidates, base)
	for _, ext := range b.extensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range b.extensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}

	for _, c := range candidates {
		if b.isFile(c) {
			return b.realPath(c)
		}
	}
	return "", errors.ResolutionError("cannot resolve module").
		WithContext("specifier", spec).
		WithContext("importer", importer).
		Build()
}

// realPath resolves symlinks so that every route to a file yields the same
// dedupe key and asset path.
func (b *Builder) realPath(p string) (string, error) {
	real, err := b.canonical(p)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve real path").
			WithContext("path", p).
			Fatal().
			Build()
	}
	return real, nil
}

func (b *Builder) isFile(p string) bool {
	fi, err := b.stat(p)
	return err == nil && !fi.IsDir()
}

