package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chess-engine/board"
	"chess-engine/engine"
)

// defaultHashMB is the transposition table size used until the GUI sends
// `setoption name Hash value <mb>`.
const defaultHashMB = 64

func main() {
	uciLoop(os.Stdin, os.Stdout)
}

func uciLoop(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024), 1<<20)

	b := board.ParseFen(board.Startpos)
	tt := engine.NewTable(defaultHashMB)
	searcher := engine.NewSearcher(tt, out)
	history := make([]uint64, 0, 256)

	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintln(out, "id name GooseEngine")
			fmt.Fprintln(out, "id author Goose")
			fmt.Fprintln(out, "option name Hash type spin default", defaultHashMB, "min 1 max 4096")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			b = board.ParseFen(board.Startpos)
			history = history[:0]
			searcher.NewGame()
		case "quit":
			return
		case "stop":
			searcher.Stop()
		case "position":
			b, history = handlePosition(line, history)
		case "setoption":
			handleSetOption(line, tt, out)
		case "go":
			limits := parseGoLimits(line)
			best := searcher.Go(&b, limits, history)
			fmt.Fprintln(out, "bestmove", best.String())
		default:
			fmt.Fprintln(out, "info string unknown command:", tokens[0])
		}
	}
}

func handlePosition(line string, history []uint64) (board.Board, []uint64) {
	fields := bufio.NewScanner(strings.NewReader(line))
	fields.Split(bufio.ScanWords)
	fields.Scan() // "position"

	var b board.Board
	if !fields.Scan() {
		return board.ParseFen(board.Startpos), history[:0]
	}
	switch strings.ToLower(fields.Text()) {
	case "startpos":
		b = board.ParseFen(board.Startpos)
		fields.Scan() // consume "moves" token if present
	case "fen":
		var parts []string
		for fields.Scan() && strings.ToLower(fields.Text()) != "moves" {
			parts = append(parts, fields.Text())
		}
		b = board.ParseFen(strings.Join(parts, " "))
	default:
		return board.ParseFen(board.Startpos), history[:0]
	}

	history = history[:0]
	history = append(history, b.Hash())
	for fields.Scan() {
		m, err := b.ParseMove(fields.Text())
		if err != nil {
			break
		}
		if ok, _ := b.MakeMove(m); !ok {
			break
		}
		history = append(history, b.Hash())
	}
	return b, history
}

func handleSetOption(line string, tt *engine.Table, out io.Writer) {
	fields := strings.Fields(line)
	var name, value string
	for i := 1; i < len(fields); i++ {
		switch strings.ToLower(fields[i]) {
		case "name":
			if i+1 < len(fields) {
				name = fields[i+1]
			}
		case "value":
			if i+1 < len(fields) {
				value = fields[i+1]
			}
		}
	}
	if strings.ToLower(name) == "hash" {
		mb, err := strconv.Atoi(value)
		if err != nil {
			fmt.Fprintln(out, "info string invalid Hash value")
			return
		}
		tt.Resize(mb)
	}
}

func parseGoLimits(line string) engine.SearchLimits {
	var limits engine.SearchLimits
	fields := bufio.NewScanner(strings.NewReader(line))
	fields.Split(bufio.ScanWords)
	fields.Scan() // "go"

	for fields.Scan() {
		switch strings.ToLower(fields.Text()) {
		case "infinite":
			limits.Infinite = true
		case "wtime":
			limits.WTime = scanInt(fields)
		case "btime":
			limits.BTime = scanInt(fields)
		case "winc":
			limits.WInc = scanInt(fields)
		case "binc":
			limits.BInc = scanInt(fields)
		case "movestogo":
			limits.MovesToGo = scanInt(fields)
		case "depth":
			limits.Depth = scanInt(fields)
		case "nodes":
			limits.Nodes = int64(scanInt(fields))
		case "movetime":
			limits.MoveTime = scanInt(fields)
		}
	}
	return limits
}

func scanInt(s *bufio.Scanner) int {
	if !s.Scan() {
		return 0
	}
	n, _ := strconv.Atoi(s.Text())
	return n
}
