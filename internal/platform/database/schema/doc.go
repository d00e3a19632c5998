// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column the service reads or writes.

Repositories build their SQL from these descriptors so that a column rename is a
one-line change and a typo is a compile error.
*/
package schema
