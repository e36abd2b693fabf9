package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tasklane/tasklane/pkg/auth"
	"github.com/tasklane/tasklane/pkg/configs/backend"
	kpg "github.com/tasklane/tasklane/pkg/domain/tasklane/db/postgres"
	"github.com/tasklane/tasklane/pkg/hub"
	"github.com/tasklane/tasklane/pkg/utils/echoutil"
	"github.com/tasklane/tasklane/pkg/utils/filewatch"

	"github.com/tasklane/tasklane/cmd/tasklaned/handlers"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	noSchema := flag.Bool("no-schema-apply", false, "do not apply the embedded DDL on startup")
	flag.Parse()

	e := echo.New()

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middleware.Recover())

	// read configfile
	conf, err := backend.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	// quit when the config file changes; the supervisor restarts us.
	ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancel()
	context.AfterFunc(ctx, func() {
		log.Println("config file is updated. quit to restart server.")
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.Shutdown(graceful); err != nil {
			log.Printf("error on shutdown by config update: %s", err)
		}
	})

	// get dbaccesor
	dbOptions := []kpg.Option{}
	if *noSchema {
		dbOptions = append(dbOptions, kpg.WithoutSchema())
	}
	db, err := kpg.New(ctx, conf.Database(), dbOptions...)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer db.Close()

	// change broadcast hub
	h := hub.New()
	defer h.Close()

	authn := auth.Middleware(conf.Auth().TokenSecret())

	// handlers
	{
		taskId := "taskId"
		tasks := e.Group("/api/tasks", authn, auth.RequireApproved)
		tasks.GET("", handlers.FindTaskHandler(db.Tasks()))
		tasks.POST("", handlers.CreateTaskHandler(db.Tasks(), h))
		tasks.GET("/:"+taskId, handlers.GetTaskHandler(db.Tasks(), taskId))
		tasks.PATCH("/:"+taskId, handlers.UpdateTaskHandler(db.Tasks(), h, taskId))
		tasks.DELETE("/:"+taskId, handlers.DeleteTaskHandler(db.Tasks(), h, taskId))

		tasks.POST("/:"+taskId+"/comments", handlers.CreateCommentHandler(db.Comments(), h, taskId))
	}

	{
		commentId := "commentId"
		comments := e.Group("/api/comments", authn, auth.RequireApproved)
		comments.GET("", handlers.FindCommentHandler(db.Comments()))
		comments.DELETE("/:"+commentId, handlers.DeleteCommentHandler(db.Comments(), commentId))
	}

	{
		projectId := "projectId"
		projects := e.Group("/api/projects", authn, auth.RequireApproved)
		projects.GET("", handlers.FindProjectHandler(db.Projects()))
		projects.POST("", handlers.CreateProjectHandler(db.Projects()))
		projects.GET("/:"+projectId, handlers.GetProjectHandler(db.Projects(), projectId))
		projects.PATCH("/:"+projectId, handlers.UpdateProjectHandler(db.Projects(), projectId))
		projects.DELETE("/:"+projectId, handlers.DeleteProjectHandler(db.Projects(), projectId))
	}

	{
		e.GET("/api/auth/user", handlers.GetCallerHandler(db.Users()), authn)
		e.GET("/api/users", handlers.FindUserHandler(db.Users()), authn, auth.RequireApproved)
		e.GET("/api/leaderboard", handlers.LeaderboardHandler(db.Users()), authn, auth.RequireApproved)
	}

	{
		userId := "userId"
		admin := e.Group("/api/admin", authn, auth.RequireAdmin)
		admin.GET("/users", handlers.AdminFindUserHandler(db.Users()))
		admin.GET("/notifications", handlers.PendingUserHandler(db.Users()))
		admin.POST("/approve/:"+userId, handlers.ApproveUserHandler(db.Users(), userId))
		admin.POST("/reject/:"+userId, handlers.RejectUserHandler(db.Users(), userId))
	}

	e.GET("/api/events", handlers.EventStreamHandler(h), authn)

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	addr := fmt.Sprintf(":%d", conf.Port())
	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(addr, cert, key))
	} else {
		e.Logger.Fatal(e.Start(addr))
	}
}
