package svn

// Message constants
const (
	MsgShort = "Fetch sources from subversion"
	MsgLong  = "Subversion helpers used to fetch the sources of a build."

	MsgCheckoutShort = "Check URL out inside DEST"
	MsgCheckoutLong  = "Checkout runs 'svn co URL' from DEST, creating DEST when it does not exist."

	MsgUpdateShort = "Update the working copy at REPO"
	MsgUpdateLong  = "Update runs 'svn up -r REVISION' inside REPO. The revision defaults to HEAD."

	MsgExportShort = "Export the single file at URL to OUT"
	MsgExportLong  = "Export runs 'svn export --force URL OUT', replacing OUT when it exists."

	MsgFlagRevision = "Revision to update to"
)
