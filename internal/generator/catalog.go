package generator

import "svw.info/blockpuzzle/internal/domain"

// shapes lists every orientation of the usual block-puzzle pieces.
var shapes = [][]string{
	{"#"},
	{"##"}, {"#", "#"},
	{"###"}, {"#", "#", "#"},
	{"####"}, {"#", "#", "#", "#"},
	{"#####"}, {"#", "#", "#", "#", "#"},
	{"##", "##"},
	{"###", "###", "###"},
	{"##", "#."}, {"##", ".#"}, {"#.", "##"}, {".#", "##"},
	{"###", "#..", "#.."}, {"###", "..#", "..#"}, {"#..", "#..", "###"}, {"..#", "..#", "###"},
	{"#.", "#.", "##"}, {".#", ".#", "##"}, {"##", "#.", "#."}, {"##", ".#", ".#"},
	{"###", "#.."}, {"###", "..#"}, {"#..", "###"}, {"..#", "###"},
	{"###", ".#."}, {".#.", "###"}, {"#.", "##", "#."}, {".#", "##", ".#"},
	{"##.", ".##"}, {".##", "##."}, {"#.", "##", ".#"}, {".#", "##", "#."},
	{"###", "###"}, {"##", "##", "##"},
}

// Catalog parses the built-in shapes.
func Catalog() []*domain.Piece {
	out := make([]*domain.Piece, 0, len(shapes))
	for _, rows := range shapes {
		p, err := domain.ParsePiece(rows...)
		if err != nil {
			panic(err)
		}
		out = append(out, p)
	}
	return out
}
