package telnet

import "testing"

func TestNegotiatorAcceptsEcho(t *testing.T) {
	n := NewNegotiator()
	res := n.HandleWill(OptEcho)
	if !res.Enabled {
		t.Fatalf("expected ECHO to be accepted")
	}
	if res.Response == nil || res.Response.Cmd != CmdDO {
		t.Fatalf("expected DO response, got %+v", res.Response)
	}
	if !n.IsEnabled(SideRemote, OptEcho) {
		t.Fatalf("expected remote ECHO enabled")
	}
}

func TestNegotiatorRejectsMCCP2(t *testing.T) {
	n := NewNegotiator()
	res := n.HandleWill(OptMCCP2)
	if res.Enabled {
		t.Fatalf("expected MCCP2 to be rejected")
	}
	if res.Response == nil || res.Response.Cmd != CmdDONT {
		t.Fatalf("expected DONT response, got %+v", res.Response)
	}
}

func TestNegotiatorDuplicateWillIsNoOp(t *testing.T) {
	n := NewNegotiator()
	n.HandleWill(OptEcho)
	res := n.HandleWill(OptEcho)
	if res.Response != nil {
		t.Fatalf("expected no response to a duplicate WILL, got %+v", res.Response)
	}
	if !res.Enabled {
		t.Fatalf("expected ECHO to remain enabled")
	}
}

func TestNegotiatorRequestEnableThenAccept(t *testing.T) {
	n := NewNegotiator()
	res := n.RequestEnable(SideRemote, OptNAWS)
	if res.Response == nil || res.Response.Cmd != CmdDO {
		t.Fatalf("expected DO NAWS request, got %+v", res.Response)
	}
	if n.State(SideRemote, OptNAWS).Kind != StateWantYes {
		t.Fatalf("expected WANT_YES after request, got %+v", n.State(SideRemote, OptNAWS))
	}

	res2 := n.HandleWill(OptNAWS)
	if res2.Response != nil {
		t.Fatalf("expected no response completing our own request, got %+v", res2.Response)
	}
	if !res2.Enabled || !n.IsEnabled(SideRemote, OptNAWS) {
		t.Fatalf("expected NAWS enabled after peer agrees")
	}
}

func TestNegotiatorLoopPrevention(t *testing.T) {
	// Once both sides agree (state YES), a duplicate WILL must never
	// provoke another response -- this is RFC 1143's core anti-loop
	// guarantee.
	n := NewNegotiator()
	n.HandleWill(OptEcho)
	for i := 0; i < 5; i++ {
		res := n.HandleWill(OptEcho)
		if res.Response != nil {
			t.Fatalf("iteration %d: duplicate WILL produced a response %+v", i, res.Response)
		}
	}
}

func TestNegotiatorQueuedDisableDuringEnable(t *testing.T) {
	n := NewNegotiator()
	n.RequestEnable(SideRemote, OptNAWS) // -> WANT_YES{EMPTY}, sends DO
	res := n.RequestDisable(SideRemote, OptNAWS)
	if res.Response != nil {
		t.Fatalf("queued disable must not send immediately, got %+v", res.Response)
	}
	st := n.State(SideRemote, OptNAWS)
	if st.Kind != StateWantYes || st.Queue != QueueOpposite {
		t.Fatalf("expected WANT_YES{OPPOSITE}, got %+v", st)
	}

	// Peer agrees to the original enable request: because a disable was
	// queued, we must now send DONT rather than settling into YES.
	res2 := n.HandleWill(OptNAWS)
	if res2.Response == nil || res2.Response.Cmd != CmdDONT {
		t.Fatalf("expected DONT after queued disable resolves, got %+v", res2.Response)
	}
	if res2.Enabled {
		t.Fatalf("expected NAWS to end disabled")
	}
}

func TestNegotiatorWontAfterEnabledDisables(t *testing.T) {
	n := NewNegotiator()
	n.HandleWill(OptEcho)
	res := n.HandleWont(OptEcho)
	if res.Response == nil || res.Response.Cmd != CmdDONT {
		t.Fatalf("expected DONT after WONT, got %+v", res.Response)
	}
	if res.Enabled || n.IsEnabled(SideRemote, OptEcho) {
		t.Fatalf("expected ECHO disabled")
	}
}

func TestNegotiatorRequestAlreadyEnabledErrors(t *testing.T) {
	n := NewNegotiator()
	n.HandleWill(OptEcho)
	res := n.RequestEnable(SideRemote, OptEcho)
	if res.Err == "" {
		t.Fatalf("expected an error requesting an already-enabled option")
	}
	if res.Response != nil {
		t.Fatalf("expected no response, got %+v", res.Response)
	}
}

func TestNegotiatorCustomPolicy(t *testing.T) {
	n := NewNegotiator()
	n.SetPolicy(func(o Option) bool { return o == OptMCCP2 })
	res := n.HandleWill(OptMCCP2)
	if !res.Enabled {
		t.Fatalf("expected custom policy to accept MCCP2")
	}
	res2 := n.HandleWill(OptEcho)
	if res2.Enabled {
		t.Fatalf("expected custom policy to reject ECHO")
	}
}
