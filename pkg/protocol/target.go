package protocol

import (
	"fmt"
	"slices"
)

// TargetKind 投递目标类型
type TargetKind uint8

const (
	// TargetEveryone 所有已分配身份的连接
	TargetEveryone TargetKind = iota
	// TargetOne 指定的一个玩家
	TargetOne
	// TargetGroup 指定的一组玩家
	TargetGroup
	// TargetAllButOne 除某一玩家外的所有人
	TargetAllButOne
	// TargetAllBut 除一组玩家外的所有人
	TargetAllBut
)

// String 返回类型名称
func (k TargetKind) String() string {
	switch k {
	case TargetEveryone:
		return "everyone"
	case TargetOne:
		return "one"
	case TargetGroup:
		return "group"
	case TargetAllButOne:
		return "all_but_one"
	case TargetAllBut:
		return "all_but"
	default:
		return fmt.Sprintf("target(%d)", uint8(k))
	}
}

// Target 出站事件的投递目标
//
// 不可变值类型。零值等价于 Everyone()。
type Target struct {
	kind TargetKind
	id   PlayerID
	ids  []PlayerID
}

// Everyone 所有已分配身份的连接
func Everyone() Target {
	return Target{kind: TargetEveryone}
}

// One 指定的一个玩家
func One(id PlayerID) Target {
	return Target{kind: TargetOne, id: id}
}

// Group 指定的一组玩家
func Group(ids ...PlayerID) Target {
	return Target{kind: TargetGroup, ids: slices.Clone(ids)}
}

// AllButOne 除 id 外的所有人
func AllButOne(id PlayerID) Target {
	return Target{kind: TargetAllButOne, id: id}
}

// AllBut 除 ids 外的所有人
func AllBut(ids ...PlayerID) Target {
	return Target{kind: TargetAllBut, ids: slices.Clone(ids)}
}

// Kind 返回目标类型
func (t Target) Kind() TargetKind {
	return t.kind
}

// IsRecipient 判断 candidate 是否应收到该事件
//
// Unassigned 永远不是接收者，该规则先于各类型的判断。
func (t Target) IsRecipient(candidate PlayerID) bool {
	if !candidate.IsAssigned() {
		return false
	}
	switch t.kind {
	case TargetEveryone:
		return true
	case TargetOne:
		return candidate == t.id
	case TargetGroup:
		return slices.Contains(t.ids, candidate)
	case TargetAllButOne:
		return candidate != t.id
	case TargetAllBut:
		return !slices.Contains(t.ids, candidate)
	default:
		return false
	}
}

// String 返回字符串表示，用于日志
func (t Target) String() string {
	switch t.kind {
	case TargetOne, TargetAllButOne:
		return fmt.Sprintf("%s(%d)", t.kind, t.id)
	case TargetGroup, TargetAllBut:
		return fmt.Sprintf("%s(%v)", t.kind, t.ids)
	default:
		return t.kind.String()
	}
}
