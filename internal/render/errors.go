package render

import "errors"

// Render failures. Load, template and write errors wrap one of these;
// match them with errors.Is.
var (
	// ErrConfigMissing means the config record file is absent or unreadable.
	ErrConfigMissing = errors.New("config missing")
	// ErrConfigParse means the config record is not a valid JSON object.
	ErrConfigParse = errors.New("config parse error")
	// ErrImagesDirMissing means the images directory does not exist.
	ErrImagesDirMissing = errors.New("images directory missing")
	// ErrTemplateNotFound means a template name did not resolve under the
	// templates directory.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrRender means the template engine failed to parse or execute.
	ErrRender = errors.New("render failed")
	// ErrWrite means an artifact could not be written.
	ErrWrite = errors.New("write failed")
)
