package filters

// Shared converter instances. References are to the Mozilla sources that
// define each field's encoding (Thunderbird 3.x / Firefox 2.x era).
var (
	hexInt      = intConv{base: 16}
	signedInt32 = signedInt32Conv{}
	boolInt     = enumOf("false", "true")
	boolAny     = boolAnyConv{}
	seconds     = secondsConv{base: 10, divisor: 1}
	hexSeconds  = secondsConv{base: 16, divisor: 1}
	microsecs   = secondsConv{base: 10, divisor: 1_000_000}
	// nsMsgDatabase.cpp writes LastPurgeTime with PR_FormatTime "%a %b %d ...".
	purgeTime = formattedTimeConv{parseLayout: "Mon Jan 02 15:04:05 2006"}

	// mailnews/base/public/nsMsgMessageFlags.idl
	msgFlags = msgFlagsConv{flags: flagsConv{names: []string{
		"Read", "Replied", "Marked", "Expunged", "HasRe",
		"Elided", "", "Offline", "Watched", "SenderAuthed",
		"Partial", "Queued", "Forwarded", "", "", "",
		"New", "", "Ignored", "", "", "IMAPDeleted",
		"MDNReportNeeded", "MDNReportSent", "Template",
		"", "", "", "Attachment",
	}}}

	// mailnews/imap/src/nsImapCore.h
	imapFlags = imapFlagsConv{flags: flagsConv{
		names: []string{
			"kImapMsgSeenFlag", "kImapMsgAnsweredFlag",
			"kImapMsgFlaggedFlag", "kImapMsgDeletedFlag",
			"kImapMsgDraftFlag", "kImapMsgRecentFlag",
			"kImapMsgForwardedFlag", "kImapMsgMDNSentFlag",
			"kImapMsgCustomKeywordFlag", "", "", "", "",
			"kImapMsgSupportMDNSentFlag", "kImapMsgSupportForwardedFlag",
			"kImapMsgSupportUserFlag",
		},
		empty: "kNoImapMsgFlag",
	}}

	// mailnews/base/public/nsMsgFolderFlags.idl
	msgFolderFlags = flagsConv{names: []string{
		"Newsgroup", "NewsHost", "Mail", "Directory", "Elided", "Virtual",
		"Subscribed", "Unused2", "Trash", "SentMail", "Drafts", "Queue",
		"Inbox", "ImapBox", "Archive", "ProfileGroup", "Unused4", "GotNew",
		"ImapServer", "ImapPersonal", "ImapPublic", "ImapOtherUser",
		"Templates", "PersonalShared", "ImapNoselect", "CreatedOffline",
		"ImapNoinferiors", "Offline", "OfflineEvents", "CheckNew", "Junk",
		"Favorite",
	}}

	msgPriority = enumOf("notSet", "none", "lowest", "low", "normal",
		"high", "highest")

	sortTypeEnum = enumConv{base: 16, values: map[int64]string{
		0x11: "byNone", 0x12: "byDate", 0x13: "bySubject", 0x14: "byAuthor",
		0x15: "byId", 0x16: "byThread", 0x17: "byPriority", 0x18: "byStatus",
		0x19: "bySize", 0x1a: "byFlagged", 0x1b: "byUnread",
		0x1c: "byRecipient", 0x1d: "byLocation", 0x1e: "byTags",
		0x1f: "byJunkStatus", 0x20: "byAttachments", 0x21: "byAccount",
		0x22: "byCustom", 0x23: "byReceived",
	}}
)

// converters maps row namespace → column → converter.
//
// ns:addrbk, ns:history, and ns:formhistory are unambiguous. ns:msg covers
// both mail summary files and folder caches; folder caches use the folders
// scope while summary files use dbfolderinfo/msgs/threads, so the scoped
// namespaces below never collide.
var converters = map[string]map[string]fieldConverter{
	// Address book cards (ns:addrbk).
	"ns:addrbk:db:row:scope:card:all": {
		"AllowRemoteContent": boolInt,
		// nsIAbCard.idl: an enumeration with a string-formatted integer
		// internal representation.
		"CardType": enumOf("normal", "AOL groups", "AOL additional email").
			withDefault("normal"),
		"LastModifiedDate": hexSeconds,
		"PopularityIndex":  hexInt,
		"PreferMailFormat": enumOf("unknown", "plaintext", "html"),
	},
	"ns:addrbk:db:row:scope:list:all": {
		"ListTotalAddresses": hexInt,
	},

	// Browser history (ns:history), nsGlobalHistory.cpp CreateTokens.
	"ns:history:db:row:scope:history:all": {
		"FirstVisitDate": microsecs,
		"LastVisitDate":  microsecs,
		"Hidden":         boolAny,
		"Typed":          boolAny,
	},

	// Folder caches (ns:msg:db:row:scope:folders).
	"ns:msg:db:row:scope:folders:all": {
		"LastPurgeTime": purgeTime,
		"MRUTime":       seconds,
		// nsImapMailFolder.h ACL flags.
		"aclFlags": flagsConv{names: []string{
			"IMAP_ACL_READ_FLAG", "IMAP_ACL_STORE_SEEN_FLAG",
			"IMAP_ACL_WRITE_FLAG", "IMAP_ACL_INSERT_FLAG",
			"IMAP_ACL_POST_FLAG", "IMAP_ACL_CREATE_SUBFOLDER_FLAG",
			"IMAP_ACL_DELETE_FLAG", "IMAP_ACL_ADMINISTER_FLAG",
			"IMAP_ACL_RETRIEVED_FLAG", "IMAP_ACL_EXPUNGE_FLAG",
			"IMAP_ACL_DELETE_FOLDER",
		}},
		// nsImapCore.h mailbox flags.
		"boxFlags": flagsConv{
			names: []string{
				"kMarked", "kUnmarked", "kNoinferiors", "kNoselect",
				"kImapTrash", "kJustExpunged", "kPersonalMailbox",
				"kPublicMailbox", "kOtherUsersMailbox", "kNameSpace",
				"kNewlyCreatedFolder", "kImapDrafts", "kImapSpam",
				"kImapSent", "kImapInbox", "kImapAllMail", "kImapXListTrash",
			},
			empty: "kNoFlags",
		},
		"hierDelim":         hierDelimConv{},
		"flags":             msgFolderFlags,
		"totalMsgs":         signedInt32,
		"totalUnreadMsgs":   signedInt32,
		"pendingUnreadMsgs": signedInt32,
		"pendingMsgs":       signedInt32,
		"expungedBytes":     hexInt,
		"folderSize":        hexInt,
	},

	// Mail summary file folder info (ns:msg:db:row:scope:dbfolderinfo).
	"ns:msg:db:row:scope:dbfolderinfo:all": {
		"current-view": enumOf("kViewItemAll", "kViewItemUnread",
			"kViewItemTags", "kViewItemNotDeleted", "", "", "",
			"kViewItemVirtual", "kViewItemCustomize", "kViewItemFirstCustom"),
		// nsIMsgDatabase.idl retention settings.
		"retainBy": enumOf("", "nsMsgRetainAll", "nsMsgRetainByAge",
			"nsMsgRetainByNumHeaders"),
		"daysToKeepHdrs":    hexInt,
		"numHdrsToKeep":     hexInt,
		"daysToKeepBodies":  hexInt,
		"keepUnreadOnly":    boolInt,
		"useServerDefaults": boolInt,
		"cleanupBodies":     boolInt,

		// Shared with the folders scope.
		"LastPurgeTime": purgeTime,
		"MRUTime":       seconds,
		"expungedBytes": hexInt,
		"flags":         msgFolderFlags,
		"folderSize":    hexInt,

		// nsDBFolderInfo.cpp.
		"numMsgs":         hexInt,
		"numNewMsgs":      hexInt,
		"folderDate":      hexSeconds,
		"charSetOverride": boolInt,
		// nsIMsgDBView.idl view enumerations and flags.
		"viewType": enumOf("eShowAllThreads", "",
			"eShowThreadsWithUnread", "eShowWatchedThreadsWithUnread",
			"eShowQuickSearchResults", "eShowVirtualFolderResults",
			"eShowSearch"),
		"viewFlags": flagsConv{
			names: []string{
				"kThreadedDisplay", "", "", "kShowIgnored", "kUnreadOnly",
				"kExpandAll", "kGroupBySort",
			},
			empty: "kNone",
		},
		"sortType":             sortTypeEnum,
		"sortOrder":            enumOf("none", "ascending", "descending"),
		"fixedBadRefThreading": boolInt,
		"imapFlags":            imapFlags,
		"sortColumns":          sortColumnsConv{},
	},

	// Mail summary file message headers (ns:msg:db:row:scope:msgs).
	"ns:msg:db:row:scope:msgs:all": {
		"ProtoThreadFlags": msgFlags,
		"date":             hexSeconds,
		"size":             hexInt,
		"flags":            msgFlags,
		"priority":         msgPriority,
		"label":            hexInt,
		"statusOfset":      hexInt,
		"numLines":         hexInt,
		"msgOffset":        hexInt,
		"offlineMsgSize":   hexInt,
		"numRefs":          hexInt,
		"dateReceived":     hexSeconds,
		"remoteContentPolicy": enumOf("kNoRemoteContentPolicy",
			"kBlockRemoteContent", "kAllowRemoteContent"),
	},

	// Mail summary file thread meta-rows.
	"m": {
		"children":            hexInt,
		"unreadChildren":      hexInt,
		"threadFlags":         msgFlags,
		"threadNewestMsgDate": hexSeconds,
	},
}
