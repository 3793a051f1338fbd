/******************************************************************************
 *
 *  Description :
 *
 *  Setup & initialization.
 *
 *****************************************************************************/

package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"runtime"
	"strings"

	gh "github.com/gorilla/handlers"
	jcr "github.com/tinode/jsonco"

	"github.com/hiddenjvc/server/server/auth"
	"github.com/hiddenjvc/server/server/auth/basic"
	"github.com/hiddenjvc/server/server/auth/token"
	"github.com/hiddenjvc/server/server/logs"
	"github.com/hiddenjvc/server/server/store"

	// DB adapters are registered at init time; the config picks one.
	_ "github.com/hiddenjvc/server/server/db/mysql"
	_ "github.com/hiddenjvc/server/server/db/postgres"
)

const (
	// currentVersion is the version of the API.
	currentVersion = "0.1"

	// defaultMaxMessageSize is the default maximum message size.
	defaultMaxMessageSize = 1 << 19 // 512K

	// defaultApiPath is the default base path of the API endpoints.
	defaultApiPath = "/v0/"
)

// Build version number defined by the compiler:
//
//	-ldflags "-X main.buildstamp=value_to_assign_to_buildstamp"
var buildstamp = "undef"

var globals struct {
	// Active websocket sessions.
	sessionStore *SessionStore
	// In-memory live viewer registry.
	tracker *PresenceTracker
	// Tiered posting cooldown policy.
	throttle throttleConfig
	// Authentication handlers indexed by scheme name.
	authHandlers map[string]auth.AuthHandler
	// Channel for stats updates.
	statsUpdate chan *varUpdate
	// Maximum allowed upload size.
	maxMessageSize int64
	// Take IP address of the client from the X-Forwarded-For header.
	useXForwardedFor bool
	// Strict-Transport-Security max age, string representation.
	tlsStrictMaxAge string
	// Intentional or unintentional shutdown in progress.
	shuttingDown bool
}

type configType struct {
	// HTTP(S) address:port to listen on.
	Listen string `json:"listen"`
	// Base URL path for the API calls.
	ApiPath string `json:"api_path"`
	// URL path for exposing runtime stats, "-" to disable.
	ExpvarPath string `json:"expvar"`
	// URL path for exposing debug profiling, "-" to disable.
	PprofUrl string `json:"pprof_url"`
	// Interpret the X-Forwarded-For header as the client address.
	UseXForwardedFor bool `json:"use_x_forwarded_for"`
	// Maximum message size allowed from the clients.
	MaxMessageSize int64 `json:"max_message_size"`
	// Log flags, passed to the logs package.
	LogFlags string `json:"log_flags"`
	// File to write the HTTP access log to, "stdout" for the standard
	// output, empty to disable access logging.
	AccessLog string `json:"access_log"`
	// Snowflake worker id, 0 through 1023.
	WorkerID int `json:"worker_id"`
	// Posting cooldown policy; the stock tiers are used when absent.
	Throttle *throttleConfig `json:"throttle"`
	// Configs for subsystems.
	Store json.RawMessage            `json:"store_config"`
	Auth  map[string]json.RawMessage `json:"auth_config"`
	TLS   *tlsConfig                 `json:"tls"`
}

func main() {
	logFlags := flag.String("log_flags", "",
		"Comma-separated list of log flags (overrides config).")
	configfile := flag.String("config", "hiddenjvc.conf", "Path to config file.")
	listenOn := flag.String("listen", "", "Override address and port to listen on for HTTP(S) clients.")
	expvarPath := flag.String("expvar", "", "Override the path where runtime stats are exposed. Use '-' to disable.")
	pprofUrl := flag.String("pprof_url", "", "Override the path where profiling info is exposed. Use '-' to disable.")
	flag.Parse()

	curwd, err := os.Getwd()
	if err != nil {
		logs.Err.Fatal("Couldn't get current working directory: ", err)
	}

	*configfile = toAbsolutePath(curwd, *configfile)
	logs.Info.Printf("Server v%s:%s; pid %d; %d process(es)",
		currentVersion, buildstamp, os.Getpid(), runtime.GOMAXPROCS(runtime.NumCPU()))
	logs.Info.Println("Using config from", *configfile)

	var config configType
	if file, err := os.Open(*configfile); err != nil {
		logs.Err.Fatal("Failed to read config file: ", err)
	} else {
		jr := jcr.New(file)
		if err = json.NewDecoder(jr).Decode(&config); err != nil {
			switch jerr := err.(type) {
			case *json.UnmarshalTypeError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Err.Fatalf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
					jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
			case *json.SyntaxError:
				lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
				logs.Err.Fatalf("Syntax error in config file at %d:%d (offset %d bytes): %s",
					lnum, cnum, jerr.Offset, jerr.Error())
			default:
				logs.Err.Fatal("Failed to parse config file: ", err)
			}
		}
		file.Close()
	}

	if *logFlags != "" {
		config.LogFlags = *logFlags
	}
	logs.Init(os.Stderr, config.LogFlags)

	if *listenOn != "" {
		config.Listen = *listenOn
	}

	if err = store.Store.Open(config.WorkerID, config.Store); err != nil {
		logs.Err.Fatal("Failed to connect to DB: ", err)
	}
	logs.Info.Println("DB adapter", store.Store.GetAdapterName(),
		"v", store.Store.GetAdapterVersion())
	defer func() {
		store.Store.Close()
		logs.Info.Println("Closed database connection(s)")
		logs.Info.Println("All done, good bye")
	}()

	// Initialize authentication handlers.
	globals.authHandlers = map[string]auth.AuthHandler{
		"basic": &basic.Authenticator{},
		"token": &token.Authenticator{},
	}
	for name, handler := range globals.authHandlers {
		if err = handler.Init(config.Auth[name], name); err != nil {
			logs.Err.Fatalf("Failed to init auth scheme '%s': %s", name, err)
		}
	}

	globals.sessionStore = NewSessionStore()
	globals.tracker = NewPresenceTracker()

	if config.Throttle != nil && len(config.Throttle.Tiers) > 0 {
		globals.throttle = *config.Throttle
	} else {
		globals.throttle = defaultThrottleConfig()
	}

	globals.maxMessageSize = config.MaxMessageSize
	if globals.maxMessageSize <= 0 {
		globals.maxMessageSize = defaultMaxMessageSize
	}
	globals.useXForwardedFor = config.UseXForwardedFor

	apiPath := config.ApiPath
	if apiPath == "" {
		apiPath = defaultApiPath
	} else {
		if !strings.HasPrefix(apiPath, "/") {
			apiPath = "/" + apiPath
		}
		if !strings.HasSuffix(apiPath, "/") {
			apiPath += "/"
		}
	}

	mux := http.NewServeMux()

	// Handle websocket clients.
	mux.HandleFunc(apiPath+"presence", serveWebSocket)
	// Account login.
	mux.HandleFunc(apiPath+"account/login", serveLogin)
	// Moderation calls and the audit log.
	mux.HandleFunc(apiPath+"moderation", serveModeration)
	mux.HandleFunc(apiPath+"moderation/log", serveModerationLog)
	// Post creation and quote chains.
	mux.HandleFunc(apiPath+"posts", servePosts)
	mux.HandleFunc(apiPath+"posts/", servePosts)
	mux.HandleFunc("/", serve404)

	evpath := *expvarPath
	if evpath == "" {
		evpath = config.ExpvarPath
	}
	statsInit(mux, evpath)

	pprofPath := *pprofUrl
	if pprofPath == "" {
		pprofPath = config.PprofUrl
	}
	servePprof(mux, pprofPath)

	statsRegisterInt("Version")
	decVersion := base10Version(parseVersion(currentVersion))
	statsSet("Version", decVersion)
	statsRegisterDbStats()

	statsRegisterInt("LiveSessions")
	statsRegisterInt("TotalSessions")
	statsRegisterInt("LivePresenceForums")
	statsRegisterInt("LivePresenceTopics")
	statsRegisterInt("ModerationActionsTotal")
	statsRegisterInt("PostsThrottledTotal")
	statsRegisterInt("IncomingMessagesWebsockTotal")
	statsRegisterInt("OutgoingMessagesWebsockTotal")

	var handler http.Handler = mux
	handler = gh.CompressHandler(handler)
	if config.AccessLog != "" {
		out := os.Stdout
		if config.AccessLog != "stdout" {
			if out, err = os.OpenFile(config.AccessLog,
				os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err != nil {
				logs.Err.Fatal("Failed to open access log: ", err)
			}
			defer out.Close()
		}
		handler = gh.CombinedLoggingHandler(out, handler)
	}
	handler = hstsHandler(handler)

	if err = listenAndServe(config.Listen, handler, config.TLS, signalHandler()); err != nil {
		logs.Err.Fatal(err)
	}
}
