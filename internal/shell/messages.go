package shell

// Status lines shared by several commands.
const (
	MsgWelcome       = "Enter /search-term to search or h for help"
	MsgBadSyntax     = "Bad syntax. Enter h for help"
	MsgConfirmExit   = "Press ctrl-c again to exit"
	MsgInvalidRange  = "Invalid item / range entered!"
	MsgInvalidInput  = "Invalid input"
	MsgNoData        = "Error fetching data. Possible network issue: %v"
	MsgBadData       = "Unreadable response: %v"
	MsgCantPlay      = "Problem playing last item: %v"
	MsgNotEnough     = "Not enough input"
	MsgAdviseSearch  = "Use /search-term to search"
	MsgNoTracks      = "There are no tracks to select"
	MsgNoPlaylists   = "No saved playlists found!"
	MsgPlaylistHelp  = "Enter open <name or number> to load a playlist"
	MsgNoPrevSearch  = "No previous search."
	MsgHistoryEmpty  = "History empty"
	MsgCacheCleared  = "cache cleared"
	MsgPlaybackAbort = "Playback stopped"
)
