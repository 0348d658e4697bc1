package cli

import (
	"context"
	"path/filepath"

	"github.com/lettersync/cli/internal/errors"
	"github.com/lettersync/cli/internal/interfaces"
	"github.com/lettersync/cli/internal/ledger"
	"github.com/lettersync/cli/internal/project"
	"github.com/lettersync/cli/internal/remote"
	"github.com/lettersync/cli/internal/repository"
	"github.com/lettersync/cli/internal/session"
	"github.com/lettersync/cli/internal/sync"
)

// environment bundles the collaborators every sync command needs: a connected
// gateway session, the remote store and render harness on top of it, the local
// letter repository, and the initialized status ledger.
type environment struct {
	projectRoot string
	config      *interfaces.ProjectConfig
	session     *session.Manager
	store       *remote.Store
	harness     *remote.Harness
	repo        *repository.Manager
	ledger      *ledger.Manager
	syncer      *sync.Syncer
}

// openEnvironment locates the project, loads its configuration, connects the
// gateway session, and opens the status ledger. The caller owns the returned
// environment and must Close it.
func openEnvironment(ctx context.Context) (*environment, error) {
	targetDir, err := resolveProjectDir()
	if err != nil {
		return nil, errors.NewGenericError("failed to resolve project directory", err)
	}

	projectMgr := getProjectManager()
	projectRoot, err := projectMgr.FindProjectRoot(targetDir)
	if err != nil {
		return nil, err
	}

	// --config overrides the conventional config location inside the project.
	var config *interfaces.ProjectConfig
	if cfgFile != "" {
		config, err = projectMgr.LoadConfigFile(cfgFile)
	} else {
		config, err = projectMgr.LoadConfig(projectRoot)
	}
	if err != nil {
		return nil, err
	}

	sessionMgr, err := session.NewManager(config.Gateway)
	if err != nil {
		return nil, errors.NewSessionError("failed to create gateway session", err)
	}
	if err := sessionMgr.Connect(ctx); err != nil {
		sessionMgr.Close()
		return nil, err
	}

	ledgerMgr := ledger.NewManager()
	dbPath := filepath.Join(projectRoot, project.ConfigDirName, "state.db")
	if err := ledgerMgr.Initialize(dbPath); err != nil {
		sessionMgr.Close()
		return nil, err
	}

	repo := repository.NewManager(filepath.Join(projectRoot, config.Paths.LettersDir()))
	store := remote.NewStore(sessionMgr)

	env := &environment{
		projectRoot: projectRoot,
		config:      config,
		session:     sessionMgr,
		store:       store,
		harness:     remote.NewHarness(sessionMgr),
		repo:        repo,
		ledger:      ledgerMgr,
	}
	env.syncer = sync.NewSyncer(store, repo, ledgerMgr)
	return env, nil
}

// Close releases the ledger and the gateway session.
func (e *environment) Close() {
	e.ledger.Close()
	e.session.Close()
}

// testDataDir is where render test documents live.
func (e *environment) testDataDir() string {
	return filepath.Join(e.projectRoot, e.config.Paths.TestDataDir())
}

// renderRunner builds a runner that stores artifacts under the project's
// screenshots directory.
func (e *environment) renderRunner() *sync.RenderRunner {
	artifactsDir := filepath.Join(e.projectRoot, e.config.Paths.ArtifactsDir())
	return sync.NewRenderRunner(e.harness, artifactsDir)
}

func getProjectManager() interfaces.ProjectManager {
	return project.NewManager()
}
