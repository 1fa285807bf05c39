/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */


/*
Package server contains the code for the query service.
*/
package server

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/common/lockutil"
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/querytoken/api"
	v1 "devt.de/krotik/querytoken/api/v1"
	"devt.de/krotik/querytoken/config"
	"devt.de/krotik/querytoken/ecal"
	"devt.de/krotik/querytoken/query"
	"devt.de/krotik/querytoken/query/macro"
)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the server should not call os.Exit on a fatal error.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)
var print = consolelogger(log.Print)

/*
Base path for all file (used by unit tests)
*/
var basepath = ""

/*
LogOutput is the output of the macro dictionary logger.
*/
var LogOutput io.Writer = os.Stderr

/*
StartServer runs the query service. The server uses config.Config for all its
configuration parameters.
*/
func StartServer() {
	StartServerWithSingleOp(nil)
}

/*
StartServerWithSingleOp runs the query service. If the singleOperation function is
not nil then the server executes the function and exists if the function returns true.
*/
func StartServerWithSingleOp(singleOperation func(*query.Processor) bool) {
	var err error
	var dict *macro.Dictionary

	print(fmt.Sprintf("QueryToken %v", config.ProductVersion))

	// Ensure we have a configuration - use the default configuration if nothing was set

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	initMacroLogging(config.Str(config.LogLevel))

	// Load the macro dictionary

	if config.Bool(config.EnableMacros) {

		loc := filepath.Join(basepath, config.Str(config.MacroDictionaryFile))

		if ok, _ := fileutil.PathExists(loc); ok {

			print("Loading macro dictionary: ", loc)

			dict, err = macro.LoadDictionary(loc, config.Bool(config.EnableStrictMacros))
			if err != nil {
				fatal("Failed to load macro dictionary:", err)
				return
			}

			print(fmt.Sprintf("Loaded %v macro%v", dict.Size(), stringutil.Plural(dict.Size())))

		} else {

			print("No macro dictionary found in ", loc)
		}
	}

	// Create the query processor

	maxTokens := int(config.Int(config.MaxQueryTokens))

	print(fmt.Sprintf("Creating query processor (token limit: %v)", maxTokens))

	api.QP = query.NewProcessor(dict, maxTokens,
		uint64(config.Int(config.ParseCacheMaxSize)), config.Int(config.ParseCacheMaxAgeSeconds))

	defer func() {
		os.RemoveAll(filepath.Join(basepath, config.Str(config.LockFile)))
	}()

	// Handle single operation - these are operations which work on the query
	// processor and then exit.

	if singleOperation != nil && singleOperation(api.QP) {
		return
	}

	// Start the ECAL scripting interpreter

	if config.Bool(config.EnableECALScripts) {

		scriptFolder := filepath.Join(basepath, config.Str(config.ECALScriptFolder))

		print("Loading ECAL scripts in ", scriptFolder)

		ensurePath(scriptFolder)

		if err = ecal.NewScriptingInterpreter(scriptFolder, api.QP).Run(); err != nil {
			fatal("Failed to start ECAL scripting interpreter:", err)
			return
		}
	}

	// Register REST endpoints

	api.APIHost = config.Str(config.HTTPHost) + ":" + config.Str(config.HTTPPort)

	api.RegisterRestEndpoints(api.GeneralEndpointMap)
	api.RegisterRestEndpoints(v1.V1EndpointMap)

	if config.Bool(config.EnableWebSocket) {

		print("Enabling websocket endpoint: ", v1.EndpointParseSock)

		api.RegisterRestEndpoints(v1.V1SockEndpointMap)
	}

	// Start HTTP server and enable REST API

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	print("Starting server on: ", api.APIHost)

	go hs.RunHTTPServer(":"+config.Str(config.HTTPPort), &wg)

	// Wait until the server has started

	wg.Wait()

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	// Create a lockfile so the server can be shut down

	lf := lockutil.NewLockFile(filepath.Join(basepath, config.Str(config.LockFile)),
		time.Duration(2)*time.Second)

	lf.Start()

	go func() {

		// Check if the lockfile watcher is running and
		// call shutdown once it has finished

		for lf.WatcherRunning() {
			time.Sleep(time.Duration(1) * time.Second)
		}

		print("Lockfile was modified")

		hs.Shutdown()
	}()

	// Add to the wait group so we can wait for the shutdown

	wg.Add(1)

	print("Waiting for shutdown")
	wg.Wait()

	print("Shutting down")
}

/*
initMacroLogging routes the log output of the macro dictionary through a scoped logger.
*/
func initMacroLogging(level string) {
	logutil.ClearLogSinks()

	logger := logutil.GetLogger("macro")

	logger.AddLogSink(logutil.StringToLoglevel(level), logutil.SimpleFormatter(), LogOutput)

	macro.LogInfo = logger.Info
	macro.LogDebug = logger.Debug
}

/*
ensurePath ensures that a given relative path exists.
*/
func ensurePath(path string) {
	if res, _ := fileutil.PathExists(path); !res {
		if err := os.Mkdir(path, 0770); err != nil {
			fatal("Could not create directory:", err.Error())
			return
		}
	}
}
