// Package cli implements the files manager command line client.
//
// Every invocation runs a single subcommand:
//
//	register [email]                 create an account
//	login [email]                    open a session and remember its token
//	logout                           close the session and forget the token
//	me                               show the current user
//	upload [-parent id] [-public] [-name n] <path>
//	mkdir [-parent id] [-public] <name>
//	ls [-parent id] [-page n]        list a folder, newest first
//	show <id>                        show file metadata
//	publish <id> / unpublish <id>    change visibility
//	get [-size px] [-o path] <id>    download content or a thumbnail
//	status / stats                   server health and counters
//
// Passwords are read from the terminal without echo.
package cli
