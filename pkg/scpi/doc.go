// Package scpi implements the command/query engine for newline-framed
// SCPI instruments.
//
// A Session wraps one transport connection and serializes all traffic on
// it. Commands are fire-and-forget writes followed by a short settle
// pause; queries block for a single reply line. Long-running instrument
// operations are awaited with WaitComplete, which polls the operation-
// complete flag at a caller-chosen pace within a bounded budget.
//
//	sess, err := scpi.Dial(ctx, "TCPIP::192.168.1.20::5025::SOCKET")
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	id, err := sess.Identify(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Println(id)
//
//	if err := sess.Reset(ctx); err != nil {
//		return err
//	}
//	if err := sess.WaitComplete(ctx, 0); err != nil {
//		return err
//	}
//
// Replies come back as raw text with the line terminator intact. The
// parse helpers (ParseFloat, ParseInt, ParseBool, IsOverflow) interpret
// them and report malformed replies as *ProtocolError rather than
// guessing a value.
//
// A session that loses its transport is dead: subsequent operations fail
// with ErrNotConnected and the caller must dial a fresh session.
package scpi
