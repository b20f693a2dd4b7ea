// Solvedrec - Competitive Programming Problem Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/solvedrec

/*
Package supervisor provides process supervision for Solvedrec using suture v4.

# Overview

Long-running services are organized into three layers for failure isolation:

	RootSupervisor ("solvedrec")
	├── DataSupervisor ("data-layer")
	│   └── TrainerService
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── DuelPruneService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. A failure in the
trainer never interrupts the API layer, which keeps serving the last
published model.

# Usage Example

	slogger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(slogger, cfg.TreeConfig())
	if err != nil {
	    return err
	}

	tree.AddDataService(services.NewTrainerService(handle, openDataset, store, opts, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)

# Event Logging

Supervisor events (service failures, restarts, backoff) are logged through
the sutureslog adapter, bridged onto zerolog by logging.NewSlogLogger.

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
