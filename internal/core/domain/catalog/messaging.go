package catalog

import "actbot/internal/core/domain"

func messagingCommands() []domain.CommandSpec {
	return []domain.CommandSpec{
		{
			Name:   "SEND_POKE",
			Action: "send_poke",
			Fields: []domain.FieldSpec{
				requiredID("qq_id"),
				optionalID("group_id"),
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "DELETE_MSG",
			Action: "delete_msg",
			Fields: []domain.FieldSpec{
				requiredID("message_id"),
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "AI_VOICE_SEND",
			Action: "send_group_ai_record",
			Fields: []domain.FieldSpec{
				requiredID("group_id"),
				{Name: "character", Type: domain.FieldString, Required: true, NonEmpty: true},
				{Name: "text", Type: domain.FieldString, Required: true, NonEmpty: true},
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "MESSAGE_LIKE",
			Action: "message_like",
			Fields: []domain.FieldSpec{
				requiredID("message_id"),
				requiredID("emoji_id"),
				{Name: "set", Type: domain.FieldBool, Default: true},
			},
			Result: domain.ResultNone,
		},
		{
			Name:   "SET_QQ_PROFILE",
			Action: "set_qq_profile",
			Fields: []domain.FieldSpec{
				{Name: "nickname", Type: domain.FieldString, Required: true, NonEmpty: true},
				{Name: "personal_note", Type: domain.FieldString},
				{Name: "sex", Type: domain.FieldString, OneOf: []string{"male", "female", "unknown"}},
			},
			Result: domain.ResultNone,
		},
	}
}
