package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

var helpTopics = map[string]string{
	"basics": `# mpsh

Type a command and press enter. Several commands can be given at once on
the command line, separated by commas (use ,, for a literal comma):

    mpsh "search jazz, 1-3"

Enter **h <topic>** for one of: ` + "`search`, `view`, `play`, `playlists`, `settings`." + `

Ctrl-c at the prompt asks for confirmation, a second ctrl-c exits.
**q**, **quit** or **exit** leave the shell.`,

	"search": `# Searching

| Command | Result |
| --- | --- |
| ` + "`/term`, `.term`, `search term`" + ` | videos matching term |
| ` + "`//term`, `..term`, `pls term`" + ` | playlists matching term |
| ` + "`user name`, `user name/term`" + ` | uploads of a channel, optionally narrowed |
| ` + "`upl name`" + ` | playlists of a channel |
| ` + "`pl url-or-id`" + ` | items of a remote playlist |
| ` + "`feed url`" + ` | items of an RSS, Atom or podcast feed |
| ` + "`url link ...`, `url_file path`" + ` | videos behind pasted links or a file of links |
| ` + "`album title`" + ` | the tracks of an album, matched to videos |
| ` + "`lsearch term`" + ` | entries you played or saved before |
| ` + "`u N`, `r N`" + ` | uploads by the author of item N, items related to it |
| ` + "`mix N`" + ` | the automatic mix of item N |`,

	"view": `# Viewing results

| Command | Result |
| --- | --- |
| ` + "`n`, `p`" + ` | next and previous page |
| ` + "`p N`" + ` | go to page N |
| ` + "`dump`, `undump`" + ` | show every result at once, back to pages |
| ` + "`i N`" + ` | details of item N |
| ` + "`c N`" + ` | comments on item N, paged with n and p |
| ` + "`x N`" + ` | copy the link of item N |
| ` + "`browserplay N`" + ` | open item N in the browser |
| ` + "`history`, `history clear`" + ` | recently played items |
| ` + "`shuffle`, `reverse`, `reverse a-b`" + ` | reorder the items shown |`,

	"play": `# Playing

Enter item numbers to play them: **1**, **1-3**, **1,4,6**, **5-**, or
**all**. Options may come before or after the selection:

| Option | Meaning |
| --- | --- |
| ` + "`shuffle`" + ` | random order |
| ` + "`repeat`" + ` | start over when done |
| ` + "`-a`, `-v`" + ` | audio only, force video |
| ` + "`-f`, `-w`" + ` | fullscreen, windowed |

**playurl link** plays a single pasted link, optionally with -a, -f or -w.

Ctrl-c while playing stops playback and returns to the prompt. In a list
of playlists, a single number opens that playlist.`,

	"playlists": `# Playlists

| Command | Result |
| --- | --- |
| ` + "`add 1-3`, `add all`" + ` | add items to the working playlist |
| ` + "`add 1-3 name`" + ` | add items to a saved playlist |
| ` + "`rm 2`, `rm all`" + ` | remove items from the list shown |
| ` + "`mv 3 1`, `sw 1 2`" + ` | move or swap items |
| ` + "`vp`" + ` | show the working playlist |
| ` + "`save`, `save name`" + ` | save the list shown |
| ` + "`ls`" + ` | saved playlists |
| ` + "`open name`, `view name`" + ` | load or view a saved playlist |
| ` + "`play name`" + ` | play a saved playlist |
| ` + "`mv old new`" + ` | rename a saved playlist |
| ` + "`rmp name`" + ` | delete a saved playlist |`,

	"settings": `# Settings

| Command | Result |
| --- | --- |
| ` + "`set`" + ` | show all settings |
| ` + "`set name value`" + ` | change and save a setting |
| ` + "`set name default`" + ` | restore a default |
| ` + "`set all default`" + ` | restore every default except the API key |
| ` + "`clearcache`" + ` | forget resolved stream links |

Setting names can be abbreviated to any unique prefix.`,
}

// HelpTopics lists the topics Help accepts.
func HelpTopics() []string {
	topics := make([]string, 0, len(helpTopics))
	for t := range helpTopics {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Help renders topic, or the overview when topic is empty, wrapped to width.
func Help(topic string, width int) (string, error) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		topic = "basics"
	}
	md, ok := lookupTopic(topic)
	if !ok {
		return "", fmt.Errorf("no help for %q, topics are: %s", topic, strings.Join(HelpTopics(), ", "))
	}

	if width <= 0 || width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", wrapErr("help renderer", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", wrapErr("rendering help", err)
	}
	return out, nil
}

// lookupTopic accepts any unique prefix of a topic.
func lookupTopic(topic string) (string, bool) {
	if md, ok := helpTopics[topic]; ok {
		return md, true
	}
	var found string
	for _, t := range HelpTopics() {
		if strings.HasPrefix(t, topic) {
			if found != "" {
				return "", false
			}
			found = t
		}
	}
	if found == "" {
		return "", false
	}
	return helpTopics[found], true
}
