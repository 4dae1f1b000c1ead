package catalog

import "actbot/internal/core/domain"

// queryCommands covers the read-only half of the catalog. These are the
// commands whose responses carry a payload worth correlating.
func queryCommands() []domain.CommandSpec {
	noCache := domain.FieldSpec{Name: "no_cache", Type: domain.FieldBool, Default: false}

	return []domain.CommandSpec{
		{
			Name:   "GET_LOGIN_INFO",
			Action: "get_login_info",
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_STRANGER_INFO",
			Action: "get_stranger_info",
			Fields: []domain.FieldSpec{
				requiredID("user_id"),
			},
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_FRIEND_LIST",
			Action: "get_friend_list",
			Fields: []domain.FieldSpec{noCache},
			Result: domain.ResultList,
		},
		{
			Name:   "GET_GROUP_INFO",
			Action: "get_group_info",
			Fields: []domain.FieldSpec{
				optionalID("group_id"),
			},
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_GROUP_DETAIL_INFO",
			Action: "get_group_detail_info",
			Fields: []domain.FieldSpec{
				optionalID("group_id"),
			},
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_GROUP_LIST",
			Action: "get_group_list",
			Fields: []domain.FieldSpec{noCache},
			Result: domain.ResultList,
		},
		{
			Name:   "GET_GROUP_AT_ALL_REMAIN",
			Action: "get_group_at_all_remain",
			Fields: []domain.FieldSpec{
				optionalID("group_id"),
			},
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_GROUP_MEMBER_INFO",
			Action: "get_group_member_info",
			Fields: []domain.FieldSpec{
				requiredID("user_id"),
				optionalID("group_id"),
				noCache,
			},
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_GROUP_MEMBER_LIST",
			Action: "get_group_member_list",
			Fields: []domain.FieldSpec{
				optionalID("group_id"),
				noCache,
			},
			Result: domain.ResultList,
		},
		{
			Name:   "GET_MSG",
			Action: "get_msg",
			Fields: []domain.FieldSpec{
				requiredID("message_id"),
			},
			Result: domain.ResultObject,
		},
		{
			Name:   "GET_FORWARD_MSG",
			Action: "get_forward_msg",
			Fields: []domain.FieldSpec{
				{Name: "message_id", Type: domain.FieldString, Required: true, NonEmpty: true},
			},
			Result: domain.ResultObject,
		},
	}
}
