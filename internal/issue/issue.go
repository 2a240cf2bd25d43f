// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ArchiveNotFoundId Id = iota + 1
	ArchiveCorruptId
	ArchiveNotConfiguredId
	ConfigLoadFailedId
	ConfigInvalidId
	ActionLogUnavailableId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	archiveNotFoundIssue = &Issue{
		id: ArchiveNotFoundId,
		mdMsg: `
# Archive not found!

The archive named by ` + "`system_directory`" + ` does not exist or cannot be read.

## Things you can try:
- Check the path in your config file:
~~~
$ tarsh config show
~~~

- Point tarsh at an archive directly:
~~~
$ tarsh --archive ./system.tar.gz
~~~`,
	}

	archiveCorruptIssue = &Issue{
		id: ArchiveCorruptId,
		mdMsg: `
# Failed to read the archive!

The file exists but could not be decoded.

## Supported formats:
- tar
- tar compressed with gzip (` + "`.tar.gz`, `.tgz`" + `)
- tar compressed with zstd (` + "`.tar.zst`" + `)
- zip

## Things you can try:
- List the archive with the system tools to make sure it is intact:
~~~
$ tar -tvf system.tar.gz
~~~

- Re-create the archive with a single top-level directory:
~~~
$ tar -czf system.tar.gz system/
~~~`,
	}

	archiveNotConfiguredIssue = &Issue{
		id: ArchiveNotConfiguredId,
		mdMsg: `
# No archive configured!

tarsh needs an archive to build its filesystem from.

## Things you can try:
- Add it to ` + "`config.yaml`" + `:
~~~yaml
username: user
hostname: localhost
system_directory: ./system.tar
log_file: ./actions.csv
~~~

- Or pass it on the command line:
~~~
$ tarsh --archive ./system.tar
~~~

- Or set it in the environment:
~~~
$ TARSH_SYSTEM_DIRECTORY=./system.tar tarsh
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file exists but could not be parsed.

## Things you can try:
- Check the YAML (or TOML) syntax of the file
- Show the file tarsh is reading:
~~~
$ tarsh config path
~~~

- Start with a fresh file:
~~~
$ tarsh config dump > config.toml
~~~`,
	}

	configInvalidIssue = &Issue{
		id: ConfigInvalidId,
		mdMsg: `
# Invalid configuration!

A configuration value was rejected.

## Rules:
- ` + "`username`" + ` and ` + "`hostname`" + ` must not be empty or contain whitespace

## Things you can try:
- Inspect the effective configuration:
~~~
$ tarsh config show
~~~`,
	}

	actionLogUnavailableIssue = &Issue{
		id: ActionLogUnavailableId,
		mdMsg: `
# Cannot open the action log!

The file named by ` + "`log_file`" + ` could not be created.

## Things you can try:
- Make sure the directory exists and is writable
- Disable the action log by leaving ` + "`log_file`" + ` empty`,
	}

	issues = map[Id]*Issue{
		archiveNotFoundIssue.Id():      archiveNotFoundIssue,
		archiveCorruptIssue.Id():       archiveCorruptIssue,
		archiveNotConfiguredIssue.Id(): archiveNotConfiguredIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		configInvalidIssue.Id():        configInvalidIssue,
		actionLogUnavailableIssue.Id(): actionLogUnavailableIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
