package catalog

import "actbot/internal/core/domain"

// moderationCommands covers group administration. Mutations carry no payload
// back; the backend only acknowledges them.
func moderationCommands() []domain.CommandSpec {
	return []domain.CommandSpec{
		{
			Name:   "GROUP_BAN",
			Action: "set_group_ban",
			Fields: []domain.FieldSpec{
				requiredID("group_id"),
				requiredID("qq_id"),
				// 30 days is the longest mute the platform accepts; zero lifts it.
				{Name: "duration", Type: domain.FieldInt, Required: true, Min: bound(0), Max: bound(2592000)},
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "GROUP_WHOLE_BAN",
			Action: "set_group_whole_ban",
			Fields: []domain.FieldSpec{
				requiredID("group_id"),
				{Name: "enable", Type: domain.FieldBool, Required: true},
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "GROUP_KICK",
			Action: "set_group_kick",
			Fields: []domain.FieldSpec{
				requiredID("user_id"),
				optionalID("group_id"),
				{Name: "reject_add_request", Type: domain.FieldBool, Default: false},
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "GROUP_KICK_MEMBERS",
			Action: "set_group_kick_members",
			Fields: []domain.FieldSpec{
				{Name: "user_id", Type: domain.FieldIntList, Required: true, NonEmpty: true, Min: bound(1)},
				optionalID("group_id"),
				{Name: "reject_add_request", Type: domain.FieldBool, Default: false},
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "SET_GROUP_NAME",
			Action: "set_group_name",
			Fields: []domain.FieldSpec{
				{Name: "group_name", Type: domain.FieldString, Required: true, NonEmpty: true},
				optionalID("group_id"),
			},
			Result: domain.ResultNone,
		},
	}
}
