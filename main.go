package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gruntwork-io/gitlab-tasks/gitremote"
	"github.com/gruntwork-io/gitlab-tasks/identity"
	"github.com/gruntwork-io/gitlab-tasks/source"
	_ "github.com/gruntwork-io/gitlab-tasks/source/fake"   // Register in-memory source
	_ "github.com/gruntwork-io/gitlab-tasks/source/gitlab" // Register GitLab source
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// This variable is set at build time using -ldflags parameters. For more info, see:
// http://stackoverflow.com/a/11355611/483528
var VERSION string

// GlobalOptions are the options shared by all commands, merged from flags, the config file and the environment
type GlobalOptions struct {
	ServerUrl  string
	Project    string
	RemoteUrl  string
	RepoDir    string
	Remote     string
	Token      string
	SourceType string

	// Project logger
	Logger *logrus.Entry
}

const optionServerUrl = "server-url"
const optionProject = "project"
const optionRemoteUrl = "remote-url"
const optionRepoDir = "repo-dir"
const optionRemote = "remote"
const optionToken = "token"
const optionConfig = "config"
const optionLogLevel = "log-level"
const optionSource = "source"

const envVarGitlabToken = "GITLAB_TOKEN"
const envVarConfig = "GITLAB_TASKS_CONFIG"

// SourceFactory creates the source commands talk to
type SourceFactory func(sourceType source.SourceType, config source.Config) (source.Source, error)

// tasks holds the dependencies of the commands. Tests replace both to stay away from real servers and the real
// environment.
type tasks struct {
	newSource SourceFactory
	lookupEnv identity.LookupEnvFunc
}

// CreateGitLabTasksCli creates the gitlab-tasks CLI App
func CreateGitLabTasksCli(version string, writer io.Writer, errwriter io.Writer) *cli.App {
	return tasks{newSource: source.NewSource, lookupEnv: os.LookupEnv}.createCli(version, writer, errwriter)
}

func (t tasks) createCli(version string, writer io.Writer, errwriter io.Writer) *cli.App {
	app := &cli.App{
		Name:      appName,
		Usage:     "gitlab-tasks runs common GitLab operations, like inspecting pipelines, downloading repository files and creating tags, from build scripts.",
		UsageText: "gitlab-tasks [global options] <command> [command options]",
		Authors:   []*cli.Author{{Name: "Gruntwork", Email: "www.gruntwork.io"}},
		Version:   version,
		Writer:    writer,
		ErrWriter: errwriter,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  optionServerUrl,
				Usage: "The URL of the GitLab server, e.g. https://gitlab.example.com. Defaults to $CI_SERVER_URL.",
			},
			&cli.StringFlag{
				Name:  optionProject,
				Usage: "The full path of the project, e.g. group/subgroup/project. Defaults to $CI_PROJECT_PATH.",
			},
			&cli.StringFlag{
				Name:  optionRemoteUrl,
				Usage: "A git remote URL of the project, e.g. git@gitlab.example.com:group/project.git.\n\tUsed when --project is not set.",
			},
			&cli.StringFlag{
				Name:  optionRepoDir,
				Value: ".",
				Usage: "The local git repository whose remote identifies the project when neither --project nor --remote-url is set.",
			},
			&cli.StringFlag{
				Name:  optionRemote,
				Value: gitremote.DefaultRemote,
				Usage: "The name of the git remote to read from --repo-dir.",
			},
			&cli.StringFlag{
				Name:  optionToken,
				Usage: fmt.Sprintf("A GitLab personal, project or group access token. Defaults to $%s.", envVarGitlabToken),
			},
			&cli.StringFlag{
				Name:  optionConfig,
				Usage: fmt.Sprintf("Path to a YAML file with defaults for the global options. Defaults to $%s.", envVarConfig),
			},
			&cli.StringFlag{
				Name:  optionLogLevel,
				Value: DEFAULT_LOG_LEVEL.String(),
				Usage: "The logging level of the command. Acceptable values\n\tare \"trace\", \"debug\", \"info\", \"warn\", \"error\", \"fatal\" and \"panic\".",
			},
			&cli.StringFlag{
				Name:    optionSource,
				Aliases: []string{"s"},
				Value:   string(source.TypeGitLab),
				Usage:   "The source type to use: \"gitlab\" or \"fake\". The fake keeps everything in memory and starts every\n\tproject with a single \"main\" branch, which makes it useful for dry runs.",
			},
		},
		Before: t.initLogger,
		Commands: []*cli.Command{
			t.identityCommand(),
			t.pipelineCommand(),
			t.mergeRequestCommand(),
			t.fileCommand(),
			t.tagCommand(),
			t.branchCommand(),
		},
	}

	return app
}

func main() {
	app := CreateGitLabTasksCli(VERSION, os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		logger := GetProjectLoggerWithWriter(os.Stderr)
		logger.Debug(errors.PrintErrorWithStackTrace(err))
		logger.Errorf("%s\n", friendlyError(errors.Unwrap(err)))
		os.Exit(1)
	}
}

// initLogger initializes the Logger before any command is actually executed. This function will handle all the setup
// code, such as setting up the logger with the appropriate log level.
func (t tasks) initLogger(cliContext *cli.Context) error {
	config, err := t.loadConfig(cliContext)
	if err != nil {
		return err
	}

	logLevel := stringOption(cliContext, optionLogLevel, config.LogLevel)
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("Error: %s", err)
	}
	logging.SetGlobalLogLevel(level)
	return nil
}

func (t tasks) loadConfig(c *cli.Context) (ConfigFile, error) {
	path := c.String(optionConfig)
	if path == "" {
		path, _ = t.lookupEnv(envVarConfig)
	}
	return loadConfigFile(path)
}

// stringOption prefers a flag that was set explicitly, then the config file value, then the flag default
func stringOption(c *cli.Context, name string, fromConfig string) string {
	if c.IsSet(name) || fromConfig == "" {
		return c.String(name)
	}
	return fromConfig
}

func (t tasks) parseOptions(c *cli.Context) (GlobalOptions, error) {
	config, err := t.loadConfig(c)
	if err != nil {
		return GlobalOptions{}, err
	}

	options := GlobalOptions{
		ServerUrl:  stringOption(c, optionServerUrl, config.ServerUrl),
		Project:    stringOption(c, optionProject, config.Project),
		RemoteUrl:  c.String(optionRemoteUrl),
		RepoDir:    stringOption(c, optionRepoDir, config.RepoDir),
		Remote:     stringOption(c, optionRemote, config.Remote),
		Token:      stringOption(c, optionToken, config.Token),
		SourceType: c.String(optionSource),
		Logger:     GetProjectLoggerWithWriter(c.App.ErrWriter),
	}

	if options.Token == "" {
		options.Token, _ = t.lookupEnv(envVarGitlabToken)
	}

	return options, nil
}

// resolveProject determines the project to work on. In order of precedence: --project (with --server-url or
// $CI_SERVER_URL), --remote-url, $CI_SERVER_URL with $CI_PROJECT_PATH, and finally the remote of the local repository.
func (t tasks) resolveProject(options GlobalOptions) (identity.ProjectIdentity, error) {
	if options.Project != "" {
		serverUrl := options.ServerUrl
		if serverUrl == "" {
			serverUrl, _ = t.lookupEnv(identity.EnvServerURL)
		}
		if serverUrl == "" {
			return identity.ProjectIdentity{}, newError(projectNotResolvable, fmt.Sprintf("--%s requires --%s or $%s", optionProject, optionServerUrl, identity.EnvServerURL))
		}

		server, err := identity.ServerIdentityFromURL(serverUrl)
		if err != nil {
			return identity.ProjectIdentity{}, wrapError(projectNotResolvable, err)
		}
		project, err := server.ProjectFromPath(options.Project)
		if err != nil {
			return identity.ProjectIdentity{}, wrapError(projectNotResolvable, err)
		}
		return project, nil
	}

	if options.RemoteUrl != "" {
		project, err := identity.ProjectIdentityFromGitRemoteURL(options.RemoteUrl)
		if err != nil {
			return identity.ProjectIdentity{}, wrapError(projectNotResolvable, err)
		}
		return project, nil
	}

	if project, ok := identity.TryCurrentProjectIdentity(t.lookupEnv); ok {
		options.Logger.Debugf("Using project %s from the CI environment", project.ProjectPath())
		return project, nil
	}

	project, err := gitremote.ProjectIdentity(options.RepoDir, options.Remote)
	if err != nil {
		return identity.ProjectIdentity{}, wrapError(projectNotResolvable, err)
	}
	options.Logger.Debugf("Using project %s from remote %s of %s", project.ProjectPath(), options.Remote, options.RepoDir)
	return project, nil
}

// connect resolves the project, attaches the access token and creates the source
func (t tasks) connect(options GlobalOptions) (source.Source, identity.ProjectConnection, error) {
	project, err := t.resolveProject(options)
	if err != nil {
		return nil, identity.ProjectConnection{}, err
	}

	if options.Token == "" {
		return nil, identity.ProjectConnection{}, newError(missingAccessToken, fmt.Sprintf("no access token configured for %s", project.URL()))
	}
	conn, err := project.WithAccessToken(options.Token)
	if err != nil {
		return nil, identity.ProjectConnection{}, wrapError(missingAccessToken, err)
	}

	sourceType, err := source.ParseSourceType(options.SourceType)
	if err != nil {
		return nil, identity.ProjectConnection{}, err
	}
	src, err := t.newSource(sourceType, source.Config{Logger: options.Logger})
	if err != nil {
		return nil, identity.ProjectConnection{}, fmt.Errorf("Failed to create source: %s", err)
	}

	options.Logger.Debugf("Using %s source for %s", sourceType, conn)
	return src, conn, nil
}

// withOptions adapts a command implementation to a cli action. Errors get a stack trace attached.
func (t tasks) withOptions(run func(c *cli.Context, options GlobalOptions) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		options, err := t.parseOptions(c)
		if err != nil {
			return errors.WithStackTrace(err)
		}
		return errors.WithStackTrace(run(c, options))
	}
}

// withSource is withOptions for commands that talk to GitLab
func (t tasks) withSource(run func(c *cli.Context, options GlobalOptions, src source.Source, project identity.ProjectConnection) error) cli.ActionFunc {
	return t.withOptions(func(c *cli.Context, options GlobalOptions) error {
		src, project, err := t.connect(options)
		if err != nil {
			return err
		}
		return run(c, options, src, project)
	})
}
