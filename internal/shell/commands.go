package shell

import "github.com/pders01/mpsh/internal/command"

// Pattern fragments shared by several bindings.
const (
	// word is a name: it starts with a letter and cannot be an item number.
	word = `[^\W\d][-\w\s]{0,100}`
	// playOpts are the overrides allowed around a play selection.
	playOpts = `(?:(?:repeat|shuffle|-[avfw])\s*)`
	// playlistID picks a playlist id out of an id or a pasted URL.
	playlistID = `\S*?((?:RD|PL|LL|UU|FL|OL)[-_0-9a-zA-Z]+)\s*`
)

// Commands returns the command table. Resolution is first match wins, so
// the order below is significant: narrower patterns come before the broader
// ones that would also accept their input.
func Commands() *command.Registry[*Env] {
	r := command.NewRegistry[*Env]()

	r.MustRegister("showconfig", `set|showconfig`, showConfig)
	r.MustRegister("set", `set\s+([-\w]+)\s*(.*)`, setConfig)

	r.MustRegister("user", `user\s+(.+)`, userUploads)
	r.MustRegister("search", `(?:search|\.|/)\s*([^./].{1,500})`, searchVideos)
	r.MustRegister("userpl", `u(?:ser)?pl\s(.*)`, userPlaylists)
	r.MustRegister("pls", `(?:\.\.|//|pls(?:earch)?\s)\s*(.*)`, searchPlaylists)
	r.MustRegister("pl", `pl\s+`+playlistID, openRemotePlaylist)
	r.MustRegister("feed", `feed\s+(\S+)`, showFeed)
	r.MustRegister("lsearch", `lsearch\s+(.+)`, localSearch)
	r.MustRegister("url", `url\s+(.+)`, showURLs)
	r.MustRegister("url_file", `url_file\s+(\S+)`, urlFile)
	r.MustRegister("playurl", `playurl\s+(\S*[-_a-zA-Z0-9]{11}\S*)(?:\s+(-[afw]))?`, playURL)
	r.MustRegister("album", `album\s*(.{0,500})`, albumSearch)

	r.MustRegister("play_saved", `play\s+(`+word+`|\d+)`, playSaved)
	r.MustRegister("save_last", `save`, saveLast)
	r.MustRegister("history_clear", `history\s+clear`, clearHistory)
	r.MustRegister("history", `history`, showHistory)
	r.MustRegister("open_save_view", `(open|save|view)\s*(`+word+`)`, openSaveView)
	r.MustRegister("open_view_num", `(open|view)\s*(\d{1,4})`, openViewNumber)
	r.MustRegister("rm_add", `(rm|add)\s*(-?\d[-,\d\s]{0,250})`, rmAdd)
	r.MustRegister("play", `(`+playOpts+`{0,3})([-,\d\s]{1,250})\s*(`+playOpts+`{0,3})`, playSelection)
	r.MustRegister("play_all", `(`+playOpts+`{0,3})(?:\*|all)\s*(`+playOpts+`{0,3})`, playAll)
	r.MustRegister("ls", `ls`, listPlaylists)
	r.MustRegister("vp", `vp`, viewWorking)
	r.MustRegister("help", `(?:help|h)(?:\s+([-_a-zA-Z]+))?`, showHelp)
	r.MustRegister("quit", `(?:q|quit|exit)`, quit)
	r.MustRegister("rmp", `rmp\s*(\d+|`+word+`)`, removePlaylist)
	r.MustRegister("move_swap", `(mv|sw)\s*(\d{1,4})\s*[\s,]\s*(\d{1,4})`, moveSwap)
	r.MustRegister("add_to_named", `add\s*(-?\d[-,\d\s]{1,250})(`+word+`)`, addToNamed)
	r.MustRegister("rename_num", `mv\s*(\d{1,3})\s*(`+word+`)`, renamePlaylistNumber)
	r.MustRegister("rename", `mv\s*(`+word+`\s+`+word+`)`, renamePlaylist)
	r.MustRegister("rm_add_all", `(rm|add)\s(?:\*|all)`, rmAddAll)
	r.MustRegister("page", `(n|p)\s*(\d{1,2})?`, nextPrev)
	r.MustRegister("uploads", `u\s?(\d{1,4})`, itemUploads)
	r.MustRegister("related", `r\s?(\d{1,4})`, itemRelated)
	r.MustRegister("comments", `c\s?(\d{1,4})`, itemComments)
	r.MustRegister("copy", `x\s*(\d+)`, copyLink)
	r.MustRegister("mix", `mix\s*(\d{1,4})`, itemMix)
	r.MustRegister("info", `i\s*(\d{1,4})`, itemInfo)
	r.MustRegister("browserplay", `browserplay\s(\d{1,50})`, browserPlay)
	r.MustRegister("dump", `(un)?dump`, dump)
	r.MustRegister("shuffle", `shuffle`, shuffle)
	r.MustRegister("reverse_all", `reverse\s+all`, reverseAll)
	r.MustRegister("reverse_range", `reverse\s*(\d{1,4})\s*-\s*(\d{1,4})\s*`, reverseRange)
	r.MustRegister("reverse", `reverse`, reverse)
	r.MustRegister("clearcache", `clearcache`, clearCache)

	return r
}
