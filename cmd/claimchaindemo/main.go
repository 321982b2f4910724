// claimchaindemo walks through the core claimchain flows: an owner
// committing a claim and reading it back via the owner shortcut, and
// two owners (Alice and Bob) granting each other read access to a
// label.
package main

import (
	"flag"
	"fmt"
	"log"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/google/uuid"

	"github.com/claimchain/claimchain-core/pkg/chain"
	"github.com/claimchain/claimchain-core/pkg/config"
	"github.com/claimchain/claimchain-core/pkg/encoding"
	"github.com/claimchain/claimchain-core/pkg/objectstore"
	"github.com/claimchain/claimchain-core/pkg/params"
	"github.com/claimchain/claimchain-core/pkg/state"
	"github.com/claimchain/claimchain-core/pkg/view"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		configPath = flag.String("config", "", "Path to a YAML demo config file (overrides the built-in owners/claims)")
		showHelp   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()
	if *showHelp {
		flag.Usage()
		return
	}

	runID := uuid.New().String()
	log.Printf("claimchaindemo run %s starting", runID)

	if err := ownerShortcutScenario(); err != nil {
		log.Fatalf("owner shortcut scenario failed: %v", err)
	}
	if err := grantedReaderScenario(); err != nil {
		log.Fatalf("granted reader scenario failed: %v", err)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("loading demo config: %v", err)
	}
	if err := configuredOwnersScenario(cfg); err != nil {
		log.Fatalf("configured owners scenario failed: %v", err)
	}

	log.Printf("claimchaindemo run %s complete", runID)
}

// ownerShortcutScenario: an owner sets a claim, commits to an empty
// chain with an all-zero nonce, and reads it back through the owner
// shortcut; an unrelated reader is denied.
func ownerShortcutScenario() error {
	store := objectstore.New(objectstore.NewMemDB())
	c := chain.New(store, nil)

	owner, err := params.Generate()
	if err != nil {
		return err
	}
	deactivate := params.Activate(owner)
	defer deactivate()

	s := state.New(nil)
	s.SetClaim("marios", []byte("test"))

	result, err := s.Commit(c, nil, make([]byte, 16))
	if err != nil {
		return err
	}
	log.Printf("owner committed, new head=%s", encoding.AsciiEncode(result.NewHead))

	v, err := view.New(c, nil)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	content, ok, err := v.Get("marios")
	if err != nil {
		return err
	}
	if !ok || string(content) != "test" {
		return fmt.Errorf("owner shortcut: expected \"test\", got %q (ok=%v)", content, ok)
	}
	log.Printf("owner shortcut read marios=%q", content)

	reader, err := params.Generate()
	if err != nil {
		return err
	}
	readerDeactivate := params.Activate(reader)
	defer readerDeactivate()

	if _, ok, _ := v.Get("marios"); ok {
		return fmt.Errorf("unauthorized reader unexpectedly saw the claim")
	}
	log.Printf("unauthorized reader correctly denied")
	return nil
}

// grantedReaderScenario: Alice commits with an identity_info binding
// her DH key, grants Bob access to a label, and Bob reads it back
// through his own View. Alice's chain persists on a cometbft-db
// backend here (an in-memory one, but the same adapter a durable
// deployment points at a disk-backed dbm.DB).
func grantedReaderScenario() error {
	store := objectstore.New(objectstore.NewCometDB(dbm.NewMemDB()))
	aliceChain := chain.New(store, nil)

	alice, err := params.Generate()
	if err != nil {
		return err
	}
	bob, err := params.Generate()
	if err != nil {
		return err
	}

	identityInfo := append([]byte("Hi, I'm "), []byte(encoding.AsciiEncode(alice.Dh.Pk.Bytes()))...)

	var commitResult state.CommitResult
	func() {
		deactivate := params.Activate(alice)
		defer deactivate()

		s := state.New(identityInfo)
		s.SetClaim("bobs_key", []byte("123abc"))
		s.GrantAccess(bob.Dh.Pk, []string{"bobs_key"})

		commitResult, err = s.Commit(aliceChain, nil, nil)
	}()
	if err != nil {
		return err
	}
	if len(commitResult.Skipped) != 0 {
		return fmt.Errorf("unexpected skipped grants: %+v", commitResult.Skipped)
	}

	var asAliceContent, asBobContent []byte
	var asAliceOk, asBobOk bool
	func() {
		deactivate := params.Activate(alice)
		defer deactivate()
		v, viewErr := view.New(aliceChain, nil)
		if viewErr != nil {
			err = viewErr
			return
		}
		asAliceContent, asAliceOk, err = v.Get("bobs_key")
	}()
	if err != nil {
		return err
	}

	func() {
		deactivate := params.Activate(bob)
		defer deactivate()
		v, viewErr := view.New(aliceChain, nil)
		if viewErr != nil {
			err = viewErr
			return
		}
		asBobContent, asBobOk, err = v.Get("bobs_key")
	}()
	if err != nil {
		return err
	}

	if !asAliceOk || string(asAliceContent) != "123abc" {
		return fmt.Errorf("owner read mismatch: %q (ok=%v)", asAliceContent, asAliceOk)
	}
	if !asBobOk || string(asBobContent) != "123abc" {
		return fmt.Errorf("granted reader read mismatch: %q (ok=%v)", asBobContent, asBobOk)
	}
	log.Printf("alice and bob both read bobs_key=%q", asBobContent)
	return nil
}

// configuredOwnersScenario runs an arbitrary set of owners described by a
// loaded config.DemoConfig: each owner commits its own claims on its own
// chain, granting access to whichever other named owners cfg lists, and
// every grantee reads every granted label back through its own View.
func configuredOwnersScenario(cfg config.DemoConfig) error {
	type owner struct {
		name  string
		lp    params.LocalParams
		chain *chain.Chain
	}

	owners := make(map[string]*owner, len(cfg.Owners))
	for name := range cfg.Owners {
		lp, err := params.Generate()
		if err != nil {
			return fmt.Errorf("generating owner %q: %w", name, err)
		}
		owners[name] = &owner{
			name:  name,
			lp:    lp,
			chain: chain.New(objectstore.New(objectstore.NewMemDB()), nil),
		}
	}

	for name, scenario := range cfg.Owners {
		o := owners[name]
		var commitErr error
		func() {
			deactivate := params.Activate(o.lp)
			defer deactivate()

			s := state.New([]byte(scenario.IdentityInfo))
			for label, content := range scenario.Claims {
				s.SetClaim(label, []byte(content))
			}
			var labels []string
			for label := range scenario.Claims {
				labels = append(labels, label)
			}
			for _, granteeName := range scenario.GrantAllTo {
				grantee, ok := owners[granteeName]
				if !ok {
					commitErr = fmt.Errorf("owner %q grants to unknown owner %q", name, granteeName)
					return
				}
				s.GrantAccess(grantee.lp.Dh.Pk, labels)
			}
			result, err := s.Commit(o.chain, nil, nil)
			if err != nil {
				commitErr = err
				return
			}
			if len(result.Skipped) != 0 {
				commitErr = fmt.Errorf("owner %q: unexpected skipped grants: %+v", name, result.Skipped)
				return
			}
			log.Printf("configured owner %q committed, head=%s", name, encoding.AsciiEncode(result.NewHead))
		}()
		if commitErr != nil {
			return commitErr
		}
	}

	for name, scenario := range cfg.Owners {
		o := owners[name]
		for label, content := range scenario.Claims {
			var got []byte
			var ok bool
			var readErr error
			func() {
				deactivate := params.Activate(o.lp)
				defer deactivate()
				v, viewErr := view.New(o.chain, nil)
				if viewErr != nil {
					readErr = viewErr
					return
				}
				got, ok, readErr = v.Get(label)
			}()
			if readErr != nil {
				return fmt.Errorf("owner %q reading its own claim %q: %w", name, label, readErr)
			}
			if !ok || string(got) != content {
				return fmt.Errorf("owner %q owner-shortcut read of %q: got=%q ok=%v", name, label, got, ok)
			}
		}

		for _, granteeName := range scenario.GrantAllTo {
			grantee := owners[granteeName]
			for label, content := range scenario.Claims {
				var got []byte
				var ok bool
				var readErr error
				func() {
					deactivate := params.Activate(grantee.lp)
					defer deactivate()
					v, viewErr := view.New(o.chain, nil)
					if viewErr != nil {
						readErr = viewErr
						return
					}
					got, ok, readErr = v.Get(label)
				}()
				if readErr != nil {
					return fmt.Errorf("%q reading %q's claim %q: %w", granteeName, name, label, readErr)
				}
				if !ok || string(got) != content {
					return fmt.Errorf("%q granted-reader read of %q's %q: got=%q ok=%v", granteeName, name, label, got, ok)
				}
				log.Printf("%q read %q's %q=%q via granted capability", granteeName, name, label, got)
			}
		}
	}

	return nil
}
