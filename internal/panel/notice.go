package panel

import "time"

// NoticeKind distinguishes success and error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message. Success notices expire; an error notice has
// a zero Expires and stays until another notice replaces it.
type Notice struct {
	Kind    NoticeKind
	Message string
	Expires time.Time
}

type notices struct {
	success []Notice
	err     *Notice
}

func (n *notices) addSuccess(now time.Time, msg string) {
	n.err = nil
	n.success = append(n.pruned(now), Notice{
		Kind:    NoticeSuccess,
		Message: msg,
		Expires: now.Add(SuccessNoticeTTL),
	})
}

func (n *notices) setError(msg string) {
	n.err = &Notice{Kind: NoticeError, Message: msg}
}

func (n *notices) clearError() {
	n.err = nil
}

func (n *notices) pruned(now time.Time) []Notice {
	kept := n.success[:0]
	for _, s := range n.success {
		if now.Before(s.Expires) {
			kept = append(kept, s)
		}
	}
	return kept
}

func (n *notices) active(now time.Time) []Notice {
	n.success = n.pruned(now)
	out := make([]Notice, 0, len(n.success)+1)
	out = append(out, n.success...)
	if n.err != nil {
		out = append(out, *n.err)
	}
	return out
}

// ReportError shows msg as the error notice. It is for failures that happen
// before a panel operation can run, such as an unreadable form.
func (p *Panel) ReportError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices.setError(msg)
}
