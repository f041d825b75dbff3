// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

/*
Package uow implements the Unit of Work: one transaction boundary around one
session, with cleanup guaranteed on every exit path.

The scoped form is what almost all callers want:

	err := uow.Run(ctx, factory, func(ctx context.Context, u *uow.UnitOfWork) error {
	    if _, err := u.Exec(ctx, "INSERT INTO orders (id) VALUES ($1)", id); err != nil {
	        return err
	    }
	    _, err := u.Exec(ctx, "UPDATE stock SET n = n - 1 WHERE sku = $1", sku)
	    return err
	})

Run commits when the callback returns nil and rolls back when it returns an
error; the callback's error is what the caller observes either way. The
explicit form hands out the state machine directly:

	u, err := uow.Start(ctx, factory)
	if err != nil {
	    return err
	}
	defer u.Close()
	// ... u.Exec ... then u.Commit() or u.Rollback()

Units of work do not nest. To span several operations with one transaction,
pass the same UnitOfWork to each of them; beginning a second one on the same
session fails with TransactionError.
*/
package uow
