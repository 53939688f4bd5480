// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package install

import (
	"context"
	"fmt"

	"github.com/sigstore/validator/pkg/config"
	"github.com/sigstore/validator/pkg/logging"
	"github.com/sigstore/validator/pkg/tree"
	verifykey "github.com/sigstore/validator/pkg/verify/key"
)

// Job is one install unit: a set of sources, a destination and the keys
// that have to vouch for them.
type Job struct {
	// Name identifies the job in logs, e.g. the config file path.
	Name        string
	Sources     []string
	Destination string
	Options     tree.Options
	Keys        verifykey.KeyVerifierConfig
}

// JobFromConfig turns an install config into a Job. A config that names
// no keys of its own trusts fallback.
func JobFromConfig(cfg *config.InstallConfig, fallback verifykey.KeyVerifierConfig) Job {
	keys := fallback
	if cfg.HasKeys() {
		keys = verifykey.KeyVerifierConfig{PublicKeys: cfg.Keys, KeyDirs: cfg.KeyDirs}
	}
	return Job{
		Name:        cfg.Path,
		Sources:     cfg.Sources,
		Destination: cfg.Destination,
		Options: tree.Options{
			Recursive:  cfg.Recursive,
			Force:      cfg.Force,
			RelativeTo: cfg.PathRelative,
			PathPrefix: cfg.PathPrefix,
		},
		Keys: keys,
	}
}

// RunJob loads the job's keys and installs its sources.
func RunJob(ctx context.Context, job Job, logger logging.Logger) (tree.Result, error) {
	logger = logging.EnsureLogger(logger)
	if job.Name != "" {
		logger = logger.WithField("config", job.Name)
	}

	if err := job.Keys.Validate(); err != nil {
		return tree.Result{}, err
	}
	set, v, err := job.Keys.Load()
	if err != nil {
		return tree.Result{}, err
	}
	if set.Len() == 0 {
		logger.Warn("No public keys loaded, nothing will be installed")
	}

	in, err := NewInstaller(InstallerOptions{
		Options:     job.Options,
		Sources:     job.Sources,
		Destination: job.Destination,
		Logger:      logger,
	}, v)
	if err != nil {
		return tree.Result{}, err
	}
	return in.Install(ctx)
}

// RunJobs runs every job in order. A failing job does not stop the
// following ones; the merged result and the number of failed jobs are
// returned.
func RunJobs(ctx context.Context, jobs []Job, logger logging.Logger) (tree.Result, error) {
	logger = logging.EnsureLogger(logger)

	var (
		total  tree.Result
		failed int
	)
	for _, job := range jobs {
		res, err := RunJob(ctx, job, logger)
		total.Merge(res)
		if err != nil {
			failed++
			if res.OK() {
				// setup errors are not attached to any file
				logger.Error("Install to %s failed: %v", job.Destination, err)
			}
		}
	}
	if failed > 0 {
		return total, fmt.Errorf("%d of %d installs failed", failed, len(jobs))
	}
	return total, nil
}
