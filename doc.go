// Package ggfx runs real-time canvas effects on top of gg.
//
// # Overview
//
// An effect (light rays, a rotating starfield, a bending card gallery,
// drifting threads) is described by a typed configuration. Activating it
// against a host container allocates a surface sized to the container,
// compiles the configuration into a program and starts a render loop driven
// by the host's display-refresh callback. Deactivating releases everything
// exactly once.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/ggfx"
//	    _ "github.com/gogpu/ggfx/backend/software"
//	    "github.com/gogpu/ggfx/effect/lightrays"
//	    "github.com/gogpu/ggfx/host/headless"
//	)
//
//	host := headless.New()
//	box := headless.NewContainer(800, 600)
//
//	cfg := lightrays.Defaults()
//	cfg.Origin = ggfx.OriginTopCenter
//	inst, err := ggfx.Activate(host, box, cfg)
//	if err != nil {
//	    return err
//	}
//	defer inst.Deactivate()
//
//	host.Advance(16 * time.Millisecond) // one frame
//
// # Lifecycle
//
// An Instance is either Running (exactly one pending frame callback) or
// Stopped. Each tick advances time from the delivered timestamp, updates the
// program, smooths the pointer, draws once and schedules the next tick
// unless the instance was torn down meanwhile. A draw error stops the loop;
// it is logged and available from [Instance.Err].
//
// [View] adds a visibility gate: the instance only exists while the
// container intersects the viewport.
//
// # Hosts and backends
//
// The [Host] and [Container] interfaces abstract the environment: see
// host/headless for a deterministic host and host/term for a terminal host.
// Backends are chosen through [Backend.Supports]; backend/software renders
// with gg's rasterizer and backend/gpu presents through a gogpu window.
//
// # Threading
//
// Everything runs on the host's loop goroutine. Instances never share state;
// any number of them may be mounted at once.
package ggfx
