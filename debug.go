package bramble

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogOutput receives bramble's diagnostic lines. It defaults to stderr.
var LogOutput io.Writer = os.Stderr

// globalDebug enables debug-only checks and stats. Set by App.SetDebugMode.
var globalDebug bool

// logWarnf writes a warning line. Warnings report benign no-ops such as
// removing a node that is not a child.
func logWarnf(format string, args ...any) {
	_, _ = fmt.Fprintf(LogOutput, "[bramble] warning: "+format+"\n", args...)
}

// logDebugf writes a line only when debug mode is on.
func logDebugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(LogOutput, "[bramble] "+format+"\n", args...)
}

// frameStats holds per-frame timing and draw metrics.
// Only populated when debug mode is on.
type frameStats struct {
	updateTime time.Duration
	renderTime time.Duration
	nodesDrawn int
	drawCalls  int
	frames     uint64
}

// debugLogInterval is how many frames pass between stats lines.
const debugLogInterval = 60

// log prints timing and draw stats every debugLogInterval frames.
func (st *frameStats) log() {
	st.frames++
	if !globalDebug || st.frames%debugLogInterval != 0 {
		return
	}
	_, _ = fmt.Fprintf(LogOutput,
		"[bramble] update: %v | render: %v | total: %v\n",
		st.updateTime, st.renderTime, st.updateTime+st.renderTime)
	_, _ = fmt.Fprintf(LogOutput,
		"[bramble] nodes drawn: %d | draw calls: %d\n",
		st.nodesDrawn, st.drawCalls)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logWarnf("tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logWarnf("node %q has %d children (threshold %d)",
			n.name, len(n.children), debugMaxChildCount)
	}
}
