package md

import (
	"bytes"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/errors"
)

const fmSep = "---\n"

// StripFrontmatter splits a note into its body and YAML frontmatter
// metadata. Content that merely looks like frontmatter but does not
// parse as YAML stays in the body.
func StripFrontmatter(b []byte) (body []byte, meta map[string]any, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if !bytes.HasPrefix(b, []byte(fmSep)) {
		return b, nil, nil
	}
	stuffs := bytes.SplitN(b, []byte(fmSep), 3)
	if len(stuffs) != 3 {
		return b, nil, nil
	}
	maybeFrontmatter := stuffs[1]
	maybeBody := stuffs[2]
	var fm = make(map[string]any)
	if err := yaml.Unmarshal(maybeFrontmatter, &fm); err != nil {
		return b, nil, nil
	}
	return maybeBody, fm, nil
}
