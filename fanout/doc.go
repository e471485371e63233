/*Package fanout writes FASTQ reads to many compressed files at once.

Each output file is owned by a Sink. A Sink has a FIFO queue and one
goroutine that drains the queue into the file, so the producer only
pays for a channel send per read, and reads reach each file in the
order they were enqueued. There is no ordering between sinks.

A Pool tracks every sink of a run. Pool.Close is the only way to stop
the sinks: it puts an end marker on every queue, then waits until every
sink goroutine has written its backlog and closed its file.

    pool := fanout.NewPool(ctx, fanout.DefaultOpts)
    r1, err := pool.Open("sample.R1.fastq.gz")
    ...
    r1.Enqueue(read)
    ...
    err = pool.Close()
*/
package fanout
