package repositories

import (
	"fmt"
	"strings"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/visibility"
)

// scope tells the compiler which columns a listing exposes. Empty columns
// make the nodes that need them fail to compile.
type scope struct {
	subject    string // column holding the listed user's id
	event      string // column holding the event id
	handle     string // column holding the listed user's username
	friendship string // table (or alias) of friendship rows
}

var (
	likersScope      = scope{subject: "event_likes.user_id", event: "event_likes.event_id"}
	usersScope       = scope{subject: "users.id", handle: "users.username"}
	friendshipsScope = scope{friendship: "friendships"}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func prefixPattern(s string) string {
	return likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func statusValues(statuses []models.FriendshipStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// compile turns a visibility tree into a parameterized SQL condition. An
// empty condition means the tree always holds.
func compile(p visibility.Predicate, s scope) (string, []any, error) {
	switch n := p.(type) {
	case visibility.And:
		return join(n, " AND ", s)
	case visibility.Or:
		if len(n) == 0 {
			return "1 = 0", nil, nil
		}
		return join(n, " OR ", s)
	case visibility.Not:
		sql, vars, err := compile(n.P, s)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			return "1 = 0", nil, nil
		}
		return "NOT (" + sql + ")", vars, nil
	case visibility.SubjectIs:
		if s.subject == "" {
			return "", nil, unsupported(n)
		}
		return s.subject + " = ?", []any{n.UserID}, nil
	case visibility.EventIs:
		if s.event == "" {
			return "", nil, unsupported(n)
		}
		return s.event + " = ?", []any{n.EventID}, nil
	case visibility.FriendsWith:
		if s.subject == "" {
			return "", nil, unsupported(n)
		}
		sql := fmt.Sprintf("EXISTS (SELECT 1 FROM friendships fw WHERE fw.status IN ? AND "+
			"((fw.sender_id = %[1]s AND fw.receiver_id = ?) OR (fw.receiver_id = %[1]s AND fw.sender_id = ?)))", s.subject)
		return sql, []any{statusValues(n.Statuses), n.UserID, n.UserID}, nil
	case visibility.Involves:
		if s.friendship == "" {
			return "", nil, unsupported(n)
		}
		sql := fmt.Sprintf("(%[1]s.sender_id = ? OR %[1]s.receiver_id = ?) AND %[1]s.status IN ?", s.friendship)
		return sql, []any{n.UserID, n.UserID, statusValues(n.Statuses)}, nil
	case visibility.HandlePrefix:
		if s.handle == "" {
			return "", nil, unsupported(n)
		}
		return "LOWER(" + s.handle + `) LIKE ? ESCAPE '\'`, []any{prefixPattern(n.Prefix)}, nil
	case visibility.CounterpartHandlePrefix:
		if s.friendship == "" {
			return "", nil, unsupported(n)
		}
		sql := fmt.Sprintf("EXISTS (SELECT 1 FROM users cu WHERE cu.id = "+
			"CASE WHEN %[1]s.sender_id = ? THEN %[1]s.receiver_id ELSE %[1]s.sender_id END "+
			`AND LOWER(cu.username) LIKE ? ESCAPE '\')`, s.friendship)
		return sql, []any{n.ViewerID, prefixPattern(n.Prefix)}, nil
	default:
		return "", nil, fmt.Errorf("unknown predicate %T", p)
	}
}

func join(children []visibility.Predicate, op string, s scope) (string, []any, error) {
	var (
		parts []string
		vars  []any
	)
	for _, child := range children {
		sql, v, err := compile(child, s)
		if err != nil {
			return "", nil, err
		}
		if sql == "" {
			if op == " OR " {
				return "", nil, nil
			}
			continue
		}
		parts = append(parts, "("+sql+")")
		vars = append(vars, v...)
	}
	return strings.Join(parts, op), vars, nil
}

func unsupported(p visibility.Predicate) error {
	return fmt.Errorf("predicate %T is not supported by this listing", p)
}
