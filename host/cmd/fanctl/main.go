package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"triacfan/host/link"
	"triacfan/host/serial"
)

var (
	device     = flag.String("device", "", "Serial device path (overrides config)")
	configPath = flag.String("config", "fanctl.yml", "Path to YAML config")
	broker     = flag.String("mqtt", "", "MQTT broker URL (overrides config)")
	oneshot    = flag.String("c", "", "Run a single command and exit")
)

func main() {
	flag.Parse()

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})

	cfg, err := LoadConfig(*configPath, explicitConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: 100,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	client := link.NewClient(port)
	defer client.Close()

	stop := make(chan struct{})
	defer close(stop)
	if cfg.MQTT.Broker != "" {
		pub, err := newStatusPublisher(cfg.MQTT)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: MQTT bridge disabled: %v\n", err)
		} else {
			defer pub.Close()
			go runBridge(client, pub, cfg.MQTT.Interval, stop)
			fmt.Printf("Publishing status to %s (%s)\n", cfg.MQTT.Broker, cfg.MQTT.Topic)
		}
	}

	if *oneshot != "" {
		if err := runCommand(client, strings.Fields(*oneshot)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Connected to %s. Type 'help' for commands, 'quit' to exit.\n", cfg.Serial.Device)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if parts[0] == "quit" || parts[0] == "exit" || parts[0] == "q" {
			return
		}
		if err := runCommand(client, parts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

func runCommand(client *link.Client, parts []string) error {
	switch parts[0] {
	case "help", "?":
		printHelp()
		return nil

	case "status":
		status, err := client.Status()
		if err != nil {
			return err
		}
		printStatus(status)
		return nil

	case "uptime":
		uptime, err := client.Uptime()
		if err != nil {
			return err
		}
		fmt.Printf("uptime: %.3fs (tick %d)\n", float64(uptime)/1e6, uptime)
		return nil

	case "level":
		if len(parts) != 2 {
			return fmt.Errorf("usage: level <1-9>")
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || n > 9 {
			return fmt.Errorf("level must be 1-9")
		}
		return client.SetLevel(uint8(n))

	case "up":
		return client.LevelUp()

	case "down":
		return client.LevelDown()

	case "fan":
		return client.FanToggle()

	case "power":
		return client.PowerToggle()

	case "min":
		if len(parts) == 1 {
			min, err := client.MinPercent()
			if err != nil {
				return err
			}
			fmt.Printf("minimum conduction: %d%%\n", min)
			return nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 || n > 100 {
			return fmt.Errorf("min percent must be 0-100")
		}
		return client.SetMinPercent(uint8(n))

	case "light":
		return client.LightToggle()

	case "socket":
		return client.SocketToggle()

	case "diag":
		return client.DumpDiag()

	case "watch":
		interval := 1 * time.Second
		if len(parts) == 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 {
				return fmt.Errorf("usage: watch [seconds]")
			}
			interval = time.Duration(n) * time.Second
		}
		fmt.Println("Watching status (Ctrl-C to stop)...")
		for {
			status, err := client.Status()
			if err != nil {
				return err
			}
			printStatus(status)
			time.Sleep(interval)
		}

	default:
		return fmt.Errorf("unknown command %q (type 'help')", parts[0])
	}
}

func printStatus(s *link.Status) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Printf("power %-3s  fan %-3s  level %d  min %d%%\n",
		onOff(s.PowerOn), onOff(s.FanOn), s.Level, s.MinPercent)
	fmt.Printf("delay %dus  firing %v  line %.2fHz  watchdog %s\n",
		s.DelayUS, s.FireEnabled, s.LineFrequencyHz(), s.WatchdogPhaseName())
	fmt.Printf("zero-crossings %d  fires %d (even %d / odd %d)\n",
		s.ZeroCrossCount, s.TotalFires, s.ParityFires[0], s.ParityFires[1])
	fmt.Printf("light %s  socket %s\n", onOff(s.LightOn), onOff(s.SocketOn))
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  status         - Show full device state")
	fmt.Println("  watch [s]      - Poll and print status every s seconds")
	fmt.Println("  uptime         - Show device uptime")
	fmt.Println("  level <1-9>    - Set fan level")
	fmt.Println("  up / down      - Step fan level")
	fmt.Println("  fan            - Toggle fan run state")
	fmt.Println("  power          - Toggle master power")
	fmt.Println("  min [0-100]    - Show or set minimum conduction percent")
	fmt.Println("  light          - Toggle light relay")
	fmt.Println("  socket         - Toggle socket relay")
	fmt.Println("  diag           - Dump device diagnostic ring to its log")
	fmt.Println("  quit/exit/q    - Exit")
	fmt.Println()
}
