package model

import (
	"strings"
)

type Position string

const (
	POS_UNKNOWN Position = "UNK"
	POS_QB      Position = "QB"
	POS_RB      Position = "RB"
	POS_WR      Position = "WR"
	POS_TE      Position = "TE"
	POS_K       Position = "K"
	POS_DST     Position = "DST"
)

func ParsePosition(pos string) Position {
	pos = strings.ToLower(pos)
	switch pos {
	case "qb":
		return POS_QB
	case "rb", "fb":
		return POS_RB
	case "wr":
		return POS_WR
	case "te":
		return POS_TE
	case "k", "pk":
		return POS_K
	case "dst", "def", "d/st":
		return POS_DST
	default:
		return POS_UNKNOWN
	}
}
