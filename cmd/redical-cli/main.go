// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Command redical-cli is a line-oriented REPL standing in for the host
// key-value store's command dispatcher (§1, §6), which is out of scope for
// this module. It reads commands from stdin (or a script file via -f),
// dispatches them to an engine.Store, and prints results to stdout.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/devonmarsh/redical/config"
	"github.com/devonmarsh/redical/engine"
	"github.com/devonmarsh/redical/logging"
	"github.com/devonmarsh/redical/notify"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.With().Str("component", "cmd").Logger()

	publisher := notify.NewWatermillPublisher(cfg.NotifyTopic)
	defer publisher.Close()

	store := engine.New(cfg.OccurrenceCap, publisher, logging.Logger())

	input := io.Reader(os.Stdin)
	if scriptPath := scriptFlagValue(os.Args[1:]); scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			log.Error().Err(err).Str("path", scriptPath).Msg("failed to open script file")
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	repl(input, os.Stdout, store)
}

// scriptFlagValue extracts -f/--file's value without tying the REPL loop to
// pflag's parse cycle; config.Load already owns the shared flag set.
func scriptFlagValue(args []string) string {
	for i, a := range args {
		if (a == "-f" || a == "--file") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func repl(r io.Reader, w io.Writer, store *engine.Store) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		cmd := strings.ToUpper(fields[0])
		args := fields[1:]

		switch cmd {
		case "EVT_SET":
			body := readBody(scanner)
			if len(args) < 2 {
				fmt.Fprintln(w, "ERR EVT_SET requires calendar_uid event_uid")
				continue
			}
			if err := store.EvtSet(args[0], args[1], body); err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				continue
			}
			fmt.Fprintln(w, "OK")
		case "EVT_GET":
			if len(args) < 2 {
				fmt.Fprintln(w, "ERR EVT_GET requires calendar_uid event_uid")
				continue
			}
			lines, found := store.EvtGet(args[0], args[1])
			printRendered(w, lines, found)
		case "EVT_DEL":
			if len(args) < 2 {
				fmt.Fprintln(w, "ERR EVT_DEL requires calendar_uid event_uid")
				continue
			}
			fmt.Fprintln(w, store.EvtDel(args[0], args[1]))
		case "EVT_LIST":
			if len(args) < 1 {
				fmt.Fprintln(w, "ERR EVT_LIST requires calendar_uid")
				continue
			}
			for _, uid := range store.EvtList(args[0]) {
				fmt.Fprintln(w, uid)
			}
			fmt.Fprintln(w, ".")
		case "EVT_PRUNE":
			if len(args) < 3 {
				fmt.Fprintln(w, "ERR EVT_PRUNE requires calendar_uid from_ts until_ts")
				continue
			}
			from, until, err := parseRange(args[1], args[2])
			if err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				continue
			}
			fmt.Fprintln(w, store.EvtPrune(args[0], from, until))
		case "EVO_SET":
			body := readBody(scanner)
			if len(args) < 3 {
				fmt.Fprintln(w, "ERR EVO_SET requires calendar_uid event_uid occurrence_ts")
				continue
			}
			ts, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				fmt.Fprintf(w, "ERR bad occurrence_ts %q\n", args[2])
				continue
			}
			if err := store.EvoSet(args[0], args[1], ts, body); err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				continue
			}
			fmt.Fprintln(w, "OK")
		case "EVO_GET":
			if len(args) < 3 {
				fmt.Fprintln(w, "ERR EVO_GET requires calendar_uid event_uid occurrence_ts")
				continue
			}
			ts, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				fmt.Fprintf(w, "ERR bad occurrence_ts %q\n", args[2])
				continue
			}
			lines, found := store.EvoGet(args[0], args[1], ts)
			printRendered(w, lines, found)
		case "EVO_DEL":
			if len(args) < 3 {
				fmt.Fprintln(w, "ERR EVO_DEL requires calendar_uid event_uid occurrence_ts")
				continue
			}
			ts, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				fmt.Fprintf(w, "ERR bad occurrence_ts %q\n", args[2])
				continue
			}
			fmt.Fprintln(w, store.EvoDel(args[0], args[1], ts))
		case "EVO_PRUNE":
			eventUID, from, until, err := parseEvoPruneArgs(args)
			if err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				continue
			}
			fmt.Fprintln(w, store.EvoPrune(args[0], eventUID, from, until))
		case "QUERY":
			if len(args) < 1 {
				fmt.Fprintln(w, "ERR QUERY requires calendar_uid")
				continue
			}
			queryText := strings.TrimSpace(strings.TrimPrefix(line, fields[0]+" "+args[0]))
			result, err := store.Query(args[0], queryText)
			if err != nil {
				fmt.Fprintf(w, "ERR %v\n", err)
				continue
			}
			for _, inst := range result.Instances {
				for _, l := range engine.RenderInstance(inst) {
					fmt.Fprintln(w, l)
				}
				fmt.Fprintln(w, "--")
			}
			if result.Truncated {
				fmt.Fprintln(w, "TRUNCATED")
			}
			fmt.Fprintln(w, ".")
		case "IDX_REBUILD":
			if len(args) < 1 {
				fmt.Fprintln(w, "ERR IDX_REBUILD requires calendar_uid")
				continue
			}
			store.IdxRebuild(args[0])
			fmt.Fprintln(w, "OK")
		case "IDX_DISABLE":
			if len(args) < 1 {
				fmt.Fprintln(w, "ERR IDX_DISABLE requires calendar_uid")
				continue
			}
			store.IdxDisable(args[0])
			fmt.Fprintln(w, "OK")
		case "NEW_UID":
			fmt.Fprintln(w, uuid.NewString())
		case "QUIT", "EXIT":
			return
		default:
			fmt.Fprintf(w, "ERR unrecognized command %q\n", cmd)
		}
	}
}

// readBody reads lines until a lone "." terminator, joining them with "\n"
// for the property-layer parser.
func readBody(scanner *bufio.Scanner) string {
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func printRendered(w io.Writer, lines []string, found bool) {
	if !found {
		fmt.Fprintln(w, "NOT_FOUND")
		return
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, ".")
}

func parseRange(fromRaw, untilRaw string) (from, until int64, err error) {
	from, err = strconv.ParseInt(fromRaw, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad from_ts %q", fromRaw)
	}
	until, err = strconv.ParseInt(untilRaw, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad until_ts %q", untilRaw)
	}
	return from, until, nil
}

// parseEvoPruneArgs handles EVO_PRUNE's optional event_uid argument (§6):
// "calendar_uid from_ts until_ts" or "calendar_uid event_uid from_ts until_ts".
func parseEvoPruneArgs(args []string) (eventUID string, from, until int64, err error) {
	switch len(args) {
	case 3:
		from, until, err = parseRange(args[1], args[2])
		return "", from, until, err
	case 4:
		from, until, err = parseRange(args[2], args[3])
		return args[1], from, until, err
	default:
		return "", 0, 0, fmt.Errorf("EVO_PRUNE requires calendar_uid [event_uid] from_ts until_ts")
	}
}
