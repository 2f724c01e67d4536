// sccpctl is a thin CLI wrapping sccpd's control HTTP API: list
// registered devices, trigger a device reset, or force a config
// reload.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	controlhttp "github.com/vincentpeyrouse/wazo-libsccp/pkg/control/http"
)

const (
	exitOK       = 0
	exitNotFound = 1
	exitError    = 2
)

func main() {
	addr := flag.String("addr", "http://127.0.0.1:8090", "control API base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("usage: sccpctl [-addr url] <list|reset <device> [soft|hard]|reload>")
		os.Exit(exitError)
	}

	log.SetLevel(log.WarnLevel)
	client := controlhttp.NewClient(*addr, log.NewEntry(log.StandardLogger()))

	var err error
	switch args[0] {
	case "list":
		err = runList(client)
	case "reset":
		err = runReset(client, args[1:])
	case "reload":
		err = runReload(client)
	default:
		fmt.Printf("unknown command %q\n", args[0])
		os.Exit(exitError)
	}

	if err == nil {
		os.Exit(exitOK)
	}
	if errors.Is(err, controlhttp.ErrNotFound) {
		fmt.Println(err)
		os.Exit(exitNotFound)
	}
	fmt.Println(err)
	os.Exit(exitError)
}

func runList(client *controlhttp.Client) error {
	devices, err := client.ListDevices()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(devices)
}

func runReset(client *controlhttp.Client, args []string) error {
	if len(args) == 0 {
		return errors.New("reset requires a device name")
	}
	mode := "soft"
	if len(args) > 1 {
		mode = args[1]
	}
	if err := client.ResetDevice(args[0], mode); err != nil {
		return err
	}
	fmt.Printf("reset %s (%s) requested\n", args[0], mode)
	return nil
}

func runReload(client *controlhttp.Client) error {
	if err := client.Reload(); err != nil {
		return err
	}
	fmt.Println("config reloaded")
	return nil
}
