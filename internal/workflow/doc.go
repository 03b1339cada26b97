// Package workflow drives one interactive gitbchq session.
//
// A run moves through a fixed sequence of states and never goes back:
//
//	SELECT_RESOURCE_TYPE -> SELECT_RESOURCE_INSTANCE -> [SELECT_SUB_INSTANCE]
//	  -> UPLOAD_PATCH_DECISION -> COMPOSE_COMMENT -> POST_COMMENT
//	  -> [COMPLETE_DECISION] -> DONE
//
// The sub-instance state is only entered for todo lists and the completion
// state only for todo items. Answers are checked by the pure functions
// ParseResourceType and ParsePick; invalid answers are asked again. The
// Basecamp API, the git repository and the terminal are interfaces so the
// whole sequence runs in tests without a network or a terminal.
package workflow
